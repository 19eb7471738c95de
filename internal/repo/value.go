package repo

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the closed attribute variant.
type ValueKind int

const (
	// ValueText is the default kind; non-numeric scalars land here.
	ValueText ValueKind = iota
	// ValueNumber marks a finite numeric attribute, the only kind that
	// feeds metric extraction.
	ValueNumber
	// ValueNested marks an embedded object.
	ValueNested
)

// Value is one entry of a record's free-form attribute bag. Keeping the
// variant closed makes the "what counts as a metric" rule explicit: only
// ValueNumber contributes to statistics.
type Value struct {
	Kind   ValueKind
	Num    float64
	Str    string
	Nested map[string]Value
}

// NumberValue builds a numeric attribute value.
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// TextValue builds a textual attribute value.
func TextValue(s string) Value { return Value{Kind: ValueText, Str: s} }

// UnmarshalJSON decodes JSON numbers to ValueNumber, strings to
// ValueText, and objects to ValueNested. Booleans, arrays, and nulls are
// kept as text so the bag stays lossless for narrative context.
func (v *Value) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = Value{Kind: ValueNumber, Num: num}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*v = Value{Kind: ValueText, Str: str}
		return nil
	}

	var nested map[string]Value
	if err := json.Unmarshal(data, &nested); err == nil {
		*v = Value{Kind: ValueNested, Nested: nested}
		return nil
	}

	*v = Value{Kind: ValueText, Str: string(data)}
	return nil
}

// MarshalJSON renders the variant back to its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueNested:
		return json.Marshal(v.Nested)
	default:
		return json.Marshal(v.Str)
	}
}

// String renders a human-readable form for digests and logs.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return fmt.Sprintf("%g", v.Num)
	case ValueNested:
		return fmt.Sprintf("%v", v.Nested)
	default:
		return v.Str
	}
}
