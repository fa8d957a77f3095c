package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/formbind/formbind/internal/field"
)

// marshalFields serializes the flat field map to canonical JSON so that
// identical submissions produce byte-identical rows.
func marshalFields(fields map[string]field.Value) (string, error) {
	if fields == nil {
		fields = map[string]field.Value{}
	}
	b, err := field.MarshalCanonical(fields)
	if err != nil {
		return "", fmt.Errorf("marshal fields: %w", err)
	}
	return string(b), nil
}

// marshalErrors serializes the field-to-codes map to canonical JSON.
func marshalErrors(errs map[string][]string) (string, error) {
	if errs == nil {
		errs = map[string][]string{}
	}
	b, err := field.MarshalCanonical(errs)
	if err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(b), nil
}

// unmarshalFields decodes a stored fields column back into Values.
// Numbers decode as IntValue when they have no fractional part.
func unmarshalFields(data string) (map[string]field.Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}

	out := make(map[string]field.Value, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				out[k] = field.IntValue(i)
				continue
			}
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("unmarshal fields: key %q: %w", k, err)
			}
			out[k] = field.FloatValue(f)
			continue
		}
		out[k] = field.FromAny(v)
	}
	return out, nil
}

// unmarshalErrors decodes a stored errors column.
func unmarshalErrors(data string) (map[string][]string, error) {
	var out map[string][]string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}
	return out, nil
}
