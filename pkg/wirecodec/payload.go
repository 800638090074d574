// Package wirecodec bridges the content backend's wire representation of
// the graph (ordered id/field pairs, arbitrary-precision integers) and the
// in-memory map representation with fixed-width numeric fields.
//
// Integer fields that exceed int64 on the wire are clamped to the nearest
// representable value on decode. That precision loss is accepted: the
// backend originates such values from a ledger-scale counter, and the
// editor never needs them exact.
package wirecodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Payload is the backend's serialized graph shape: one ordered sequence of
// entries per entity kind.
type Payload struct {
	Creators   []Entry `json:"creators"`
	Categories []Entry `json:"categories"`
	Posts      []Entry `json:"posts"`
}

// Entry is one (id, fields) pair, serialized as a two-element JSON array.
type Entry struct {
	ID     string
	Fields map[string]any
}

// MarshalJSON encodes the entry as ["id", {fields}]. *big.Int values in
// Fields serialize as bare JSON numbers, digits intact.
func (e Entry) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(e.ID)
	if err != nil {
		return nil, err
	}
	fields := e.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(id)
	buf.WriteByte(',')
	buf.Write(body)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes ["id", {fields}]. Numbers are decoded without
// float conversion: integral values become *big.Int so no digits are lost
// at this boundary, fractional values become float64.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("wire entry: expected [id, fields], got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.ID); err != nil {
		return fmt.Errorf("wire entry id: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(parts[1]))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("wire entry fields: %w", err)
	}
	e.Fields = PromoteNumbers(fields).(map[string]any)
	return nil
}

// PromoteNumbers walks a decoded value and replaces every json.Number with
// *big.Int (integral) or float64 (fractional). A token that is neither, such
// as a fractional value whose exponent overflows float64, stays a
// json.Number so it re-marshals as the same numeric token.
func PromoteNumbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = PromoteNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = PromoteNumbers(item)
		}
		return val
	case json.Number:
		if n, ok := new(big.Int).SetString(val.String(), 10); ok {
			return n
		}
		f, err := val.Float64()
		if err != nil {
			return val
		}
		return f
	default:
		return v
	}
}
