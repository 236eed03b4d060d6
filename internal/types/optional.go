package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalInt is an integer field that distinguishes "absent" from zero and
// tolerates malformed JSON input. Numbers and numeric strings are accepted;
// anything else leaves the field unset instead of failing the surrounding
// decode.
type OptionalInt struct {
	Value int
	Set   bool
}

// NewOptionalInt returns a set OptionalInt.
func NewOptionalInt(v int) OptionalInt {
	return OptionalInt{Value: v, Set: true}
}

// Or returns the value when set, otherwise the given default.
func (o OptionalInt) Or(def int) int {
	if o.Set {
		return o.Value
	}
	return def
}

// UnmarshalJSON implements best-effort coercion: JSON numbers and numeric
// strings are parsed, everything else (null, objects, garbage strings) is
// treated as unset. It never returns an error.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Value = 0
	o.Set = false

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			o.Value = int(f)
			o.Set = true
		}
		return nil
	}

	// Quoted numbers (including fractional ones, truncated) already decoded
	// above as json.Number. This catches strings with whitespace padding
	// around the digits, which json.Number rejects.
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			o.Value = v
			o.Set = true
		}
	}
	return nil
}

// MarshalJSON encodes unset values as null so round-trips keep the
// absent/present distinction.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
