package parsers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

func ParseFloat(val string) *float64 {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Count coerces a JSON value into a non-negative integer counter. Absent,
// non-numeric, negative and non-finite values all become 0. Numeric strings
// are accepted and fractional values are truncated.
func Count(raw json.RawMessage) int64 {
	f := number(raw)
	if f == nil {
		return 0
	}
	v := *f
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= math.MaxInt64 {
		return 0
	}
	return int64(v)
}

// Flag coerces a JSON value into a boolean. Only true and "true" are truthy.
func Flag(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}

// String returns a JSON string value, the literal text of a JSON number,
// or "" for anything else.
func String(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func number(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return ParseFloat(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return ParseFloat(n.String())
}

// object decodes a JSON object into its raw fields. ok is false for any
// other JSON value.
func object(raw []byte) (fields map[string]json.RawMessage, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// objects decodes a JSON array and returns the elements that are objects.
// Non-array values yield nil.
func objects(raw json.RawMessage) []map[string]json.RawMessage {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	out := make([]map[string]json.RawMessage, 0, len(elems))
	for _, elem := range elems {
		if fields, ok := object(elem); ok {
			out = append(out, fields)
		}
	}
	return out
}
