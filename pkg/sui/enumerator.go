package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dtnitsch/walrus-sweeper/models"
)

const (
	defaultTimeout = 30 * time.Second
	pageLimit      = 50
)

// Enumerator lists the blob objects owned by an address via
// suix_getOwnedObjects. Endpoint and blob struct type are explicit
// parameters.
type Enumerator struct {
	rpcURL     string
	blobType   string
	httpClient *http.Client
}

func NewEnumerator(rpcURL, blobStructType string) *Enumerator {
	return &Enumerator{
		rpcURL:     rpcURL,
		blobType:   blobStructType,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result *ownedObjectsPage `json:"result"`
	Error  *rpcError         `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ownedObjectsPage struct {
	Data        []ownedObject `json:"data"`
	HasNextPage bool          `json:"hasNextPage"`
	NextCursor  *string       `json:"nextCursor"`
}

type ownedObject struct {
	Data *struct {
		ObjectID      string `json:"objectId"`
		StorageRebate string `json:"storageRebate"`
		Content       *struct {
			DataType string         `json:"dataType"`
			Type     string         `json:"type"`
			Fields   map[string]any `json:"fields"`
		} `json:"content"`
	} `json:"data"`
}

// ListBlobs enumerates every blob object owned by owner, following
// pagination. Objects whose shape cannot be extracted are skipped,
// not fatal.
func (e *Enumerator) ListBlobs(ctx context.Context, owner string, nowEpoch uint64) ([]models.BlobRecord, error) {
	var records []models.BlobRecord
	var cursor *string

	for {
		page, err := e.fetchPage(ctx, owner, cursor)
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Data {
			if obj.Data == nil || obj.Data.Content == nil {
				continue
			}

			var rebate uint64
			if obj.Data.StorageRebate != "" {
				rebate, _ = strconv.ParseUint(obj.Data.StorageRebate, 10, 64)
			}

			record, ok := ExtractBlobRecord(obj.Data.ObjectID, owner, obj.Data.Content.Fields, rebate, nowEpoch)
			if !ok {
				continue
			}
			records = append(records, *record)
		}

		if !page.HasNextPage || page.NextCursor == nil {
			return records, nil
		}
		cursor = page.NextCursor
	}
}

func (e *Enumerator) fetchPage(ctx context.Context, owner string, cursor *string) (*ownedObjectsPage, error) {
	query := map[string]any{
		"filter":  map[string]any{"StructType": e.blobType},
		"options": map[string]any{"showContent": true, "showStorageRebate": true},
	}

	params := []any{owner, query}
	if cursor != nil {
		params = append(params, *cursor, pageLimit)
	} else {
		params = append(params, nil, pageLimit)
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "suix_getOwnedObjects",
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RPC request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build RPC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RPC request failed, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read RPC response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to decode RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return nil, fmt.Errorf("RPC response missing result")
	}

	return rpcResp.Result, nil
}
