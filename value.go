package litedb

import (
	"fmt"
	"math"

	"github.com/calvinalkan/litedb/internal/engine"
)

// encodeValue projects one caller value onto the engine's datatype model.
//
// Floats always bind REAL, even for integral values; there is no implicit
// narrowing to INTEGER. Booleans bind INTEGER 0/1 and deliberately do not
// round-trip back to bool.
func encodeValue(v any) (engine.Value, error) {
	switch v := v.(type) {
	case nil:
		return engine.Null(), nil
	case bool:
		if v {
			return engine.Integer(1), nil
		}

		return engine.Integer(0), nil
	case int:
		return engine.Integer(int64(v)), nil
	case int8:
		return engine.Integer(int64(v)), nil
	case int16:
		return engine.Integer(int64(v)), nil
	case int32:
		return engine.Integer(int64(v)), nil
	case int64:
		return engine.Integer(v), nil
	case uint8:
		return engine.Integer(int64(v)), nil
	case uint16:
		return engine.Integer(int64(v)), nil
	case uint32:
		return engine.Integer(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return engine.Value{}, fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
		}

		return engine.Integer(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return engine.Value{}, fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
		}

		return engine.Integer(int64(v)), nil
	case float32:
		return engine.Real(float64(v)), nil
	case float64:
		return engine.Real(v), nil
	case string:
		return engine.Text(v), nil
	case []byte:
		return engine.Blob(v), nil
	default:
		return engine.Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// decodeValue maps one engine value back to a caller value.
//
// INTEGER decoding follows the safe-integers policy: exact int64 when on,
// float64 when off (the caller accepts precision loss above 2^53).
func decodeValue(v engine.Value, safeIntegers bool) any {
	switch v.Type {
	case engine.TypeNull:
		return nil
	case engine.TypeInteger:
		if safeIntegers {
			return v.Int
		}

		return float64(v.Int)
	case engine.TypeReal:
		return v.Float
	case engine.TypeText:
		return v.Str
	case engine.TypeBlob:
		return v.Bytes
	default:
		return nil
	}
}
