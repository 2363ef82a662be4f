package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnswerKind discriminates the dynamic shapes an answer can take:
// a scalar string, a list of selected values, a number, or a
// row-keyed map of column values for matrix questions.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerString
	AnswerStrings
	AnswerNumber
	AnswerRows
)

// AnswerValue is the variant type for respondent answers and condition
// comparison values. The zero value means "not answered".
type AnswerValue struct {
	Kind AnswerKind

	Str  string
	List []string
	Num  float64
	Rows map[string]string
}

func StringValue(s string) AnswerValue    { return AnswerValue{Kind: AnswerString, Str: s} }
func StringsValue(l []string) AnswerValue { return AnswerValue{Kind: AnswerStrings, List: l} }
func NumberValue(n float64) AnswerValue   { return AnswerValue{Kind: AnswerNumber, Num: n} }
func RowsValue(m map[string]string) AnswerValue {
	return AnswerValue{Kind: AnswerRows, Rows: m}
}

// IsEmpty reports whether the value counts as "not answered": absent,
// empty string, empty list, or a matrix map with no non-empty cell.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case AnswerNone:
		return true
	case AnswerString:
		return v.Str == ""
	case AnswerStrings:
		return len(v.List) == 0
	case AnswerRows:
		for _, cell := range v.Rows {
			if cell != "" {
				return false
			}
		}
		return true
	}
	return false
}

// Text renders the value with the stringify-and-compare semantics used
// by condition evaluation: numbers drop trailing zeros, lists join on
// commas so choice answers round-trip through carry-forward splitting.
func (v AnswerValue) Text() string {
	switch v.Kind {
	case AnswerString:
		return v.Str
	case AnswerNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case AnswerStrings:
		return strings.Join(v.List, ",")
	}
	return ""
}

// Number coerces the value to a number. The second return is false for
// anything that does not parse; callers treat that as a failed comparison.
func (v AnswerValue) Number() (float64, bool) {
	switch v.Kind {
	case AnswerNumber:
		return v.Num, true
	case AnswerString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Strings returns the list form when the value is a list, or nil.
func (v AnswerValue) Strings() []string {
	if v.Kind == AnswerStrings {
		return v.List
	}
	return nil
}

// MarshalJSON writes the underlying value without a wrapper so answer
// sets persist in the same JSON shape clients submit.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerString:
		return json.Marshal(v.Str)
	case AnswerStrings:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	case AnswerNumber:
		return json.Marshal(v.Num)
	case AnswerRows:
		if v.Rows == nil {
			return json.Marshal(map[string]string{})
		}
		return json.Marshal(v.Rows)
	}
	return []byte("null"), nil
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var l []string
		if err := json.Unmarshal(data, &l); err != nil {
			return err
		}
		*v = StringsValue(l)
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*v = RowsValue(m)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// ResponseData maps question IDs (and _cv.* computed variable keys) to
// answer values. Lookup of a missing key yields the zero AnswerValue.
type ResponseData map[string]AnswerValue

// Get returns the answer for a question ID, zero-valued when unanswered.
func (d ResponseData) Get(questionID string) AnswerValue {
	return d[questionID]
}

// Merge copies every entry of other into the receiver.
func (d ResponseData) Merge(other ResponseData) {
	for k, v := range other {
		d[k] = v
	}
}

// Clone returns a shallow copy so callers can snapshot an answer set.
func (d ResponseData) Clone() ResponseData {
	out := make(ResponseData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
