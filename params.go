package litedb

import (
	"strings"

	"github.com/calvinalkan/litedb/internal/engine"
)

// bindArgs classifies the caller's arguments into the engine's parameter
// representation. Classification is structural, with no hinting from the
// statement:
//
//   - no arguments → no parameters
//   - a single []any → positional, in order
//   - a single map[string]any → named, resolved against the statement's
//     declared parameter names
//   - a single anything-else → one positional value
//   - several arguments → positional, in order
//
// Named binding walks the statement's declared parameters in order, strips
// each name's leading ':'/'@'/'$' sigil to get the lookup key, and binds
// the mapping's value when the key is present. Declared parameters missing
// from the mapping are silently left unbound (the engine defaults them to
// NULL), and mapping keys that match no declared parameter are silently
// ignored. Neither direction is an error.
func bindArgs(stmt *engine.Stmt, args []any) (engine.Params, error) {
	if len(args) == 0 {
		return engine.NoParams(), nil
	}

	if len(args) == 1 {
		switch arg := args[0].(type) {
		case []any:
			return positional(arg)
		case map[string]any:
			return named(stmt, arg)
		}
	}

	return positional(args)
}

func positional(args []any) (engine.Params, error) {
	values := make([]engine.Value, len(args))

	for i, arg := range args {
		v, err := encodeValue(arg)
		if err != nil {
			return engine.Params{}, err
		}

		values[i] = v
	}

	return engine.Positional(values), nil
}

func named(stmt *engine.Stmt, mapping map[string]any) (engine.Params, error) {
	params := make([]engine.NamedParam, 0, len(mapping))

	for i := 1; i <= stmt.ParamCount(); i++ {
		name := stmt.ParamName(i)
		if name == "" {
			// Nameless positional slot; a mapping cannot address it.
			continue
		}

		key := strings.TrimLeft(name, ":@$")

		raw, ok := mapping[key]
		if !ok {
			continue
		}

		v, err := encodeValue(raw)
		if err != nil {
			return engine.Params{}, err
		}

		params = append(params, engine.NamedParam{Name: name, Value: v})
	}

	return engine.Named(params), nil
}
