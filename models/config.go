package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScanConfig holds runtime configuration for scan operations. Values
// come from CLI flags, optionally seeded from a YAML config file.
// Endpoints are always explicit; nothing reads ambient globals.
type ScanConfig struct {
	OwnerAddress  string `yaml:"owner_address"`
	AggregatorURL string `yaml:"aggregator_url"`
	RPCURL        string `yaml:"rpc_url"`
	WorkerCount   int    `yaml:"worker_count"`
	DBPath        string `yaml:"db_path"`
	FetchContent  bool   `yaml:"fetch_content"`
}

// LoadScanConfig reads a YAML config file into a ScanConfig.
func LoadScanConfig(path string) (*ScanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ScanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
