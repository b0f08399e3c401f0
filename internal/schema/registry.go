// Package schema owns the deterministic JSON encoding every structured
// compiler error is rendered through (spec §7). Key order must be stable
// across runs so two compilations of the same input produce byte-identical
// error reports.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ErrorV1 is the schema version tag stamped onto every encoded error
// report.
const ErrorV1 = "neuronc.error/v1"

// CompactMode toggles FormatJSON between pretty-printed and compact
// output. Off by default, matching an interactive terminal's expectations.
var CompactMode = false

// SetCompactMode enables or disables compact JSON output.
func SetCompactMode(enabled bool) {
	CompactMode = enabled
}

// MarshalDeterministic marshals v with object keys sorted recursively, so
// the same error report always serializes to the same bytes regardless
// of Go's map iteration order.
func MarshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return data, nil
	}
	return marshalSorted(generic)
}

// marshalSorted recursively re-marshals maps with sorted keys.
func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out bytes.Buffer
		out.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				out.WriteByte(',')
			}
			keyJSON, err := encodeScalar(k)
			if err != nil {
				return nil, err
			}
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			out.Write(keyJSON)
			out.WriteByte(':')
			out.Write(valJSON)
		}
		out.WriteByte('}')
		return out.Bytes(), nil

	case []any:
		var out bytes.Buffer
		out.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				out.WriteByte(',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			out.Write(itemJSON)
		}
		out.WriteByte(']')
		return out.Bytes(), nil

	default:
		return encodeScalar(val)
	}
}

func encodeScalar(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FormatJSON renders data pretty-printed, or compact when CompactMode is
// set (e.g. for machine-readable --json CLI output).
func FormatJSON(data []byte) ([]byte, error) {
	if CompactMode {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
