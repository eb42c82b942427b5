package grid

import (
	"strconv"
	"strings"
	"time"
)

// Operator is one filter comparison.
type Operator string

const (
	OpContains       Operator = "contains"
	OpDoesNotContain Operator = "doesNotContain"
	OpIs             Operator = "is"
	OpIsNot          Operator = "isNot"
	OpStartsWith     Operator = "startsWith"
	OpEndsWith       Operator = "endsWith"
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpBetween        Operator = "isBetween"
	OpIsAnyOf        Operator = "isAnyOf"
	OpIsNoneOf       Operator = "isNoneOf"
	OpHasAnyOf       Operator = "hasAnyOf"
	OpHasNoneOf      Operator = "hasNoneOf"
	OpIsEmpty        Operator = "isEmpty"
	OpIsNotEmpty     Operator = "isNotEmpty"
	OpIsTrue         Operator = "isTrue"
	OpIsFalse        Operator = "isFalse"
)

var operatorLabels = map[Operator]string{
	OpContains:       "contains",
	OpDoesNotContain: "does not contain",
	OpIs:             "is",
	OpIsNot:          "is not",
	OpStartsWith:     "starts with",
	OpEndsWith:       "ends with",
	OpGreaterThan:    "is greater than",
	OpGreaterOrEqual: "is greater than or equal to",
	OpLessThan:       "is less than",
	OpLessOrEqual:    "is less than or equal to",
	OpBetween:        "is between",
	OpIsAnyOf:        "is any of",
	OpIsNoneOf:       "is none of",
	OpHasAnyOf:       "has any of",
	OpHasNoneOf:      "has none of",
	OpIsEmpty:        "is empty",
	OpIsNotEmpty:     "is not empty",
	OpIsTrue:         "is true",
	OpIsFalse:        "is false",
}

// Label returns the human-readable operator name.
func (o Operator) Label() string {
	if l, ok := operatorLabels[o]; ok {
		return l
	}
	return string(o)
}

// NeedsValue reports whether the operator takes an operand at all.
func (o Operator) NeedsValue() bool {
	switch o {
	case OpIsEmpty, OpIsNotEmpty, OpIsTrue, OpIsFalse:
		return false
	}
	return true
}

// NeedsSecondValue reports whether the operator is range-style and
// requires Value2.
func (o Operator) NeedsSecondValue() bool {
	return o == OpBetween
}

var (
	textOperators = []Operator{
		OpContains, OpDoesNotContain, OpIs, OpIsNot,
		OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
	}
	rangeOperators = []Operator{
		OpIs, OpIsNot, OpGreaterThan, OpGreaterOrEqual,
		OpLessThan, OpLessOrEqual, OpBetween, OpIsEmpty, OpIsNotEmpty,
	}
	selectOperators = []Operator{
		OpIs, OpIsNot, OpIsAnyOf, OpIsNoneOf, OpIsEmpty, OpIsNotEmpty,
	}
	multiSelectOperators = []Operator{
		OpHasAnyOf, OpHasNoneOf, OpIsEmpty, OpIsNotEmpty,
	}
	checkboxOperators = []Operator{OpIsTrue, OpIsFalse}
)

// OperatorsFor returns the fixed, ordered operator set of a variant.
func OperatorsFor(v Variant) []Operator {
	switch v {
	case VariantNumber, VariantDate:
		return rangeOperators
	case VariantSelect:
		return selectOperators
	case VariantMultiSelect:
		return multiSelectOperators
	case VariantCheckbox:
		return checkboxOperators
	default:
		return textOperators
	}
}

// DefaultOperator returns a variant's default operator: the first
// entry of its fixed table.
func DefaultOperator(v Variant) Operator {
	return OperatorsFor(v)[0]
}

// Filter is one predicate attached to a column. Value2 is only
// meaningful for range-style operators.
type Filter struct {
	ColumnID string
	Operator Operator
	Value    any
	Value2   any
}

// Rebind retargets a filter whose column changed variant: the operator
// resets to the new variant's default so a no-longer-listed operator
// never stays active, and stale operands drop.
func (f Filter) Rebind(v Variant) Filter {
	f.Operator = DefaultOperator(v)
	if !f.Operator.NeedsValue() {
		f.Value = nil
	}
	if !f.Operator.NeedsSecondValue() {
		f.Value2 = nil
	}
	return f
}

// Match evaluates the filter against one cell value. A filter whose
// operator requires an operand that is absent has no effect and
// matches.
func (f Filter) Match(col Column, cell any) bool {
	switch f.Operator {
	case OpIsEmpty:
		return isEmptyValue(cell)
	case OpIsNotEmpty:
		return !isEmptyValue(cell)
	case OpIsTrue:
		b, _ := cell.(bool)
		return b
	case OpIsFalse:
		b, _ := cell.(bool)
		return !b
	}

	if isEmptyValue(f.Value) {
		return true
	}
	if f.Operator.NeedsSecondValue() && isEmptyValue(f.Value2) {
		return true
	}

	switch col.Variant {
	case VariantNumber:
		return matchNumber(f, cell)
	case VariantDate:
		return matchDate(f, cell)
	case VariantSelect:
		return matchSelect(f, cell)
	case VariantMultiSelect:
		return matchMultiSelect(f, cell)
	default:
		return matchText(f, cell)
	}
}

func matchText(f Filter, cell any) bool {
	have := strings.ToLower(FormatValue(cell))
	want := strings.ToLower(FormatValue(f.Value))
	switch f.Operator {
	case OpContains:
		return strings.Contains(have, want)
	case OpDoesNotContain:
		return !strings.Contains(have, want)
	case OpIs:
		return have == want
	case OpIsNot:
		return have != want
	case OpStartsWith:
		return strings.HasPrefix(have, want)
	case OpEndsWith:
		return strings.HasSuffix(have, want)
	}
	return true
}

func matchNumber(f Filter, cell any) bool {
	have, ok := toFloat(cell)
	if !ok {
		return false
	}
	want, ok := operandFloat(f.Value)
	if !ok {
		return true
	}
	switch f.Operator {
	case OpIs:
		return have == want
	case OpIsNot:
		return have != want
	case OpGreaterThan:
		return have > want
	case OpGreaterOrEqual:
		return have >= want
	case OpLessThan:
		return have < want
	case OpLessOrEqual:
		return have <= want
	case OpBetween:
		want2, ok := operandFloat(f.Value2)
		if !ok {
			return true
		}
		lo, hi := want, want2
		if lo > hi {
			lo, hi = hi, lo
		}
		return have >= lo && have <= hi
	}
	return true
}

const dateLayout = "2006-01-02"

func matchDate(f Filter, cell any) bool {
	have, ok := parseDate(cell)
	if !ok {
		return false
	}
	want, ok := parseDate(f.Value)
	if !ok {
		return true
	}
	switch f.Operator {
	case OpIs:
		return have.Equal(want)
	case OpIsNot:
		return !have.Equal(want)
	case OpGreaterThan:
		return have.After(want)
	case OpGreaterOrEqual:
		return !have.Before(want)
	case OpLessThan:
		return have.Before(want)
	case OpLessOrEqual:
		return !have.After(want)
	case OpBetween:
		want2, ok := parseDate(f.Value2)
		if !ok {
			return true
		}
		lo, hi := want, want2
		if lo.After(hi) {
			lo, hi = hi, lo
		}
		return !have.Before(lo) && !have.After(hi)
	}
	return true
}

func matchSelect(f Filter, cell any) bool {
	have := FormatValue(cell)
	switch f.Operator {
	case OpIs:
		return have == FormatValue(f.Value)
	case OpIsNot:
		return have != FormatValue(f.Value)
	case OpIsAnyOf:
		return containsString(toStrings(f.Value), have)
	case OpIsNoneOf:
		return !containsString(toStrings(f.Value), have)
	}
	return true
}

func matchMultiSelect(f Filter, cell any) bool {
	have := toStrings(cell)
	want := toStrings(f.Value)
	switch f.Operator {
	case OpHasAnyOf:
		for _, w := range want {
			if containsString(have, w) {
				return true
			}
		}
		return false
	case OpHasNoneOf:
		for _, w := range want {
			if containsString(have, w) {
				return false
			}
		}
		return true
	}
	return true
}

// isEmptyValue implements the shared empty-cell notion: nil, the empty
// string, and empty slices are all empty.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case []FileRef:
		return len(val) == 0
	}
	return false
}

func operandFloat(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		if t, err := time.Parse(dateLayout, d); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

// FilterRows returns the view indices of rows matching every filter,
// in original order. valueAt reads a cell by underlying row index.
func FilterRows(cols []Column, rowCount int, filters []Filter, valueAt func(row int, columnID string) any) []int {
	out := make([]int, 0, rowCount)
	for row := 0; row < rowCount; row++ {
		keep := true
		for _, f := range filters {
			col, ok := ColumnByID(cols, f.ColumnID)
			if !ok {
				continue
			}
			if !f.Match(col, valueAt(row, f.ColumnID)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}
