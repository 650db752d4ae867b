package repository

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/forgo/clanhub/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "unique") ||
		strings.Contains(errStr, "duplicate") ||
		strings.Contains(errStr, "already exists")
}

// convertRecordID converts a SurrealDB ID (which may be a complex object) to a string
func convertRecordID(id interface{}) string {
	if str, ok := id.(string); ok {
		return str
	}
	if rid, ok := id.(models.RecordID); ok {
		return rid.String()
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return rid.String()
	}
	// Handle map format: {"tb": "user", "id": "xxx"} or {"Table": ..., "ID": ...}
	if m, ok := id.(map[string]interface{}); ok {
		tb := getString(m, "tb")
		if tb == "" {
			tb = getString(m, "Table")
		}
		idPart := ""
		if idVal, ok := m["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := m["ID"]; ok {
			idPart = extractIDValue(idVal)
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}
	// Try JSON marshaling as fallback
	if data, err := json.Marshal(id); err == nil {
		var recordID models.RecordID
		if err := json.Unmarshal(data, &recordID); err == nil {
			return recordID.String()
		}
	}
	return ""
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		// Check for {"String": "value"} format
		if s, ok := m["String"].(string); ok {
			return s
		}
		if s, ok := m["string"].(string); ok {
			return s
		}
	}
	if b, err := json.Marshal(val); err == nil {
		return strings.Trim(string(b), `"`)
	}
	return ""
}

// unwrapRecord navigates the SurrealDB response wrapper down to a single
// record map, returning database.ErrNotFound when the result set is empty.
func unwrapRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return data, nil
}

// unwrapRecords extracts the record maps from a multi-row query response.
func unwrapRecords(results []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0)
	for _, result := range results {
		resp, ok := result.(map[string]interface{})
		if !ok {
			continue
		}
		if status, ok := resp["status"].(string); !ok || status != "OK" {
			continue
		}
		resultData, ok := resp["result"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range resultData {
			if data, ok := item.(map[string]interface{}); ok {
				records = append(records, data)
			}
		}
	}
	return records
}

// normalizeTimes converts SurrealDB datetime values in a record map to
// RFC3339 strings so the map survives a JSON round-trip into a struct.
func normalizeTimes(data map[string]interface{}, keys ...string) {
	for _, key := range keys {
		switch t := data[key].(type) {
		case time.Time:
			data[key] = t.Format(time.RFC3339Nano)
		case models.CustomDateTime:
			data[key] = t.Time.Format(time.RFC3339Nano)
		case *models.CustomDateTime:
			if t != nil {
				data[key] = t.Time.Format(time.RFC3339Nano)
			}
		}
	}
}

// parseTimeValue converts the datetime representations SurrealDB hands back
// into a time.Time, returning the zero value when nothing usable is present.
func parseTimeValue(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// extractCount extracts count from a SurrealDB count query result
func extractCount(result interface{}) int {
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok && len(resultData) > 0 {
				if data, ok := resultData[0].(map[string]interface{}); ok {
					return extractCountValue(data["count"])
				}
			}
		}
		// Direct access
		return extractCountValue(resp["count"])
	}
	return 0
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// ptrOrNil converts an optional string pointer to a query variable.
func ptrOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// intPtrOrNil converts an optional int pointer to a query variable.
func intPtrOrNil(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

// timePtrOrNil converts an optional time pointer to a query variable.
func timePtrOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}
