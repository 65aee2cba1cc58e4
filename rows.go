package litedb

import "github.com/calvinalkan/litedb/internal/engine"

// MetadataKey is the reserved record key under which [Statement.Get]
// attaches per-call metadata in the default (keyed) result mode.
const MetadataKey = "_metadata"

// materializeRow turns one fetched row into a caller-facing value under the
// statement's result mode.
//
// Pluck wins over raw: it returns only the first column's decoded value
// (nil when the row has no columns). Raw returns the decoded values as an
// ordered slice. The default is a keyed record in column order; when later
// columns share a name they overwrite earlier ones, with no collision
// detection.
func materializeRow(row engine.Row, colNames []string, raw, pluck, safeIntegers bool) any {
	if pluck {
		if len(row) == 0 {
			return nil
		}

		return decodeValue(row[0], safeIntegers)
	}

	if raw {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = decodeValue(v, safeIntegers)
		}

		return values
	}

	record := make(map[string]any, len(row))
	for i, v := range row {
		record[colNames[i]] = decodeValue(v, safeIntegers)
	}

	return record
}
