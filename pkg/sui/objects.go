// Package sui enumerates an owner's blob objects from a JSON-RPC
// full node and extracts BlobRecords from the heterogeneous object
// shapes the chain returns. The core never queries the chain
// directly; it only consumes the records produced here.
package sui

import (
	"strconv"

	"github.com/dtnitsch/walrus-sweeper/models"
)

// Field extraction is versioned: each known on-chain object shape
// gets one explicit fallback path, tried in order. A shape that
// cannot produce a blob id yields no record at all rather than a
// partially-guessed one.

// ExtractBlobRecord builds a BlobRecord from the content fields of
// one owned object. Reports false when no known shape matches.
func ExtractBlobRecord(objectID, owner string, fields map[string]any, storageRebate uint64, nowEpoch uint64) (*models.BlobRecord, bool) {
	for _, extract := range blobShapes {
		if record, ok := extract(fields); ok {
			record.StorageObjectID = objectID
			record.OwnerAddress = owner
			record.StorageRebate = storageRebate
			record.Expired = record.EndEpoch > 0 && record.EndEpoch <= nowEpoch
			return record, true
		}
	}
	return nil, false
}

type blobShape func(fields map[string]any) (*models.BlobRecord, bool)

var blobShapes = []blobShape{extractBlobV1, extractBlobFlat}

// extractBlobV1 handles the current Move struct layout: storage
// bounds nested under a storage resource object.
func extractBlobV1(fields map[string]any) (*models.BlobRecord, bool) {
	blobID, ok := fieldString(fields, "blob_id")
	if !ok {
		return nil, false
	}

	storage, ok := nestedFields(fields, "storage")
	if !ok {
		return nil, false
	}

	record := &models.BlobRecord{BlobID: blobID}
	record.CreatedEpoch, _ = fieldUint(fields, "registered_epoch")
	record.Deletable, _ = fieldBool(fields, "deletable")
	record.EndEpoch, _ = fieldUint(storage, "end_epoch")
	if size, ok := fieldUint(storage, "storage_size"); ok {
		record.SizeBytes = int64(size)
	}
	return record, true
}

// extractBlobFlat handles the older flattened layout with camelCase
// keys and no nested storage object.
func extractBlobFlat(fields map[string]any) (*models.BlobRecord, bool) {
	blobID, ok := fieldString(fields, "blobId")
	if !ok {
		return nil, false
	}

	record := &models.BlobRecord{BlobID: blobID}
	record.CreatedEpoch, _ = fieldUint(fields, "startEpoch")
	record.Deletable, _ = fieldBool(fields, "deletable")
	record.EndEpoch, _ = fieldUint(fields, "endEpoch")
	if size, ok := fieldUint(fields, "size"); ok {
		record.SizeBytes = int64(size)
	}
	return record, true
}

// ExtractLinkedDomain pulls the domain name out of a name-service
// record object pointing at a site blob. Reports false when no known
// shape matches.
func ExtractLinkedDomain(fields map[string]any) (string, bool) {
	if domain, ok := fieldString(fields, "domain_name"); ok {
		return domain, true
	}
	if nft, ok := nestedFields(fields, "nft"); ok {
		if domain, ok := fieldString(nft, "domain_name"); ok {
			return domain, true
		}
	}
	return "", false
}

// fieldString reads a string field.
func fieldString(fields map[string]any, key string) (string, bool) {
	value, ok := fields[key].(string)
	return value, ok && value != ""
}

// fieldUint reads a numeric field; RPC payloads encode u64 values as
// either JSON numbers or decimal strings depending on magnitude.
func fieldUint(fields map[string]any, key string) (uint64, bool) {
	switch v := fields[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func fieldBool(fields map[string]any, key string) (bool, bool) {
	value, ok := fields[key].(bool)
	return value, ok
}

// nestedFields descends into a child object, tolerating both the
// wrapped {"type", "fields"} form and a bare map.
func nestedFields(fields map[string]any, key string) (map[string]any, bool) {
	child, ok := fields[key].(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, ok := child["fields"].(map[string]any); ok {
		return inner, true
	}
	return child, true
}
