package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/google/uuid"
)

// NewNullString returns a NULL-able string that is NULL when empty.
func NewNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// BeginScan records the start of a scan run and returns its id.
func (db *DB) BeginScan(ownerAddress string, nowEpoch uint64) (string, error) {
	scanID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO scans (scan_id, owner_address, now_epoch)
		VALUES (?, ?, ?)
	`, scanID, ownerAddress, nowEpoch)
	if err != nil {
		return "", fmt.Errorf("failed to insert scan: %w", err)
	}
	return scanID, nil
}

// FinishScan closes out a scan run with its final counts.
func (db *DB) FinishScan(scanID string, blobCount, deletableCount, failedCount int) error {
	_, err := db.Exec(`
		UPDATE scans
		SET finished_at = CURRENT_TIMESTAMP, blob_count = ?, deletable_count = ?, failed_count = ?
		WHERE scan_id = ?
	`, blobCount, deletableCount, failedCount, scanID)
	if err != nil {
		return fmt.Errorf("failed to finish scan: %w", err)
	}
	return nil
}

// InsertClassification stores one blob's judgment under a scan.
func (db *DB) InsertClassification(scanID string, c models.Classification) error {
	var referencedBy sql.NullString
	if len(c.ReferencedBy) > 0 {
		encoded, err := json.Marshal(c.ReferencedBy)
		if err != nil {
			return fmt.Errorf("failed to encode referenced_by: %w", err)
		}
		referencedBy = NewNullString(string(encoded))
	}

	var siteTitle string
	var isFileDirectory bool
	if c.Site != nil {
		siteTitle = c.Site.Title
		isFileDirectory = c.Site.IsFileDirectory
	}

	_, err := db.Exec(`
		INSERT INTO classifications
			(scan_id, blob_id, category, subcategory, importance, deletable,
			 delete_reason, size_bytes, storage_rebate, referenced_by,
			 site_title, is_file_directory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scan_id, blob_id) DO UPDATE SET
			category = excluded.category,
			subcategory = excluded.subcategory,
			importance = excluded.importance,
			deletable = excluded.deletable,
			delete_reason = excluded.delete_reason,
			size_bytes = excluded.size_bytes,
			storage_rebate = excluded.storage_rebate,
			referenced_by = excluded.referenced_by,
			site_title = excluded.site_title,
			is_file_directory = excluded.is_file_directory
	`, scanID, c.BlobID, string(c.Category), NewNullString(c.Subcategory),
		string(c.Importance), c.Deletable, NewNullString(c.DeleteReason),
		c.SizeBytes, int64(c.StorageRebate), referencedBy,
		NewNullString(siteTitle), isFileDirectory)
	if err != nil {
		return fmt.Errorf("failed to insert classification: %w", err)
	}
	return nil
}

// GetClassifications loads every classification recorded for a scan.
func (db *DB) GetClassifications(scanID string) ([]models.Classification, error) {
	rows, err := db.Query(`
		SELECT blob_id, category, subcategory, importance, deletable,
		       delete_reason, size_bytes, storage_rebate, referenced_by,
		       site_title, is_file_directory
		FROM classifications
		WHERE scan_id = ?
		ORDER BY blob_id
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var classifications []models.Classification
	for rows.Next() {
		var c models.Classification
		var subcategory, deleteReason, referencedBy, siteTitle sql.NullString
		var rebate int64
		var isFileDirectory bool

		err := rows.Scan(&c.BlobID, &c.Category, &subcategory, &c.Importance,
			&c.Deletable, &deleteReason, &c.SizeBytes, &rebate,
			&referencedBy, &siteTitle, &isFileDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to scan classification row: %w", err)
		}

		c.Subcategory = subcategory.String
		c.DeleteReason = deleteReason.String
		c.StorageRebate = uint64(rebate)
		if referencedBy.Valid {
			// Best effort: a corrupt cache row should not sink the
			// whole read.
			_ = json.Unmarshal([]byte(referencedBy.String), &c.ReferencedBy)
		}
		if siteTitle.Valid || isFileDirectory {
			c.Site = &models.SiteDescriptor{
				Title:           siteTitle.String,
				IsFileDirectory: isFileDirectory,
				HasIndexPage:    !isFileDirectory && c.Category == models.CategoryWebsite,
			}
		}

		classifications = append(classifications, c)
	}
	return classifications, rows.Err()
}

// LatestScanID returns the most recent finished scan for an owner,
// or for any owner when ownerAddress is empty.
func (db *DB) LatestScanID(ownerAddress string) (string, error) {
	query := `
		SELECT scan_id FROM scans
		WHERE finished_at IS NOT NULL
	`
	args := []any{}
	if ownerAddress != "" {
		query += " AND owner_address = ?"
		args = append(args, ownerAddress)
	}
	query += " ORDER BY started_at DESC LIMIT 1"

	var scanID string
	err := db.QueryRow(query, args...).Scan(&scanID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no finished scans recorded")
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest scan: %w", err)
	}
	return scanID, nil
}
