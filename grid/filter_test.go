package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOperatorIsFirstListed(t *testing.T) {
	cases := map[Variant]Operator{
		VariantShortText:   OpContains,
		VariantLongText:    OpContains,
		VariantURL:         OpContains,
		VariantNumber:      OpIs,
		VariantDate:        OpIs,
		VariantSelect:      OpIs,
		VariantMultiSelect: OpHasAnyOf,
		VariantCheckbox:    OpIsTrue,
	}
	for variant, want := range cases {
		ops := OperatorsFor(variant)
		require.NotEmpty(t, ops, "variant %s", variant)
		assert.Equal(t, want, DefaultOperator(variant), "variant %s", variant)
		assert.Equal(t, ops[0], DefaultOperator(variant), "default must be the first table entry for %s", variant)
	}
}

func TestOperatorTables(t *testing.T) {
	assert.Equal(t, []Operator{
		OpContains, OpDoesNotContain, OpIs, OpIsNot,
		OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
	}, OperatorsFor(VariantShortText))
	assert.Equal(t, []Operator{
		OpIs, OpIsNot, OpGreaterThan, OpGreaterOrEqual,
		OpLessThan, OpLessOrEqual, OpBetween, OpIsEmpty, OpIsNotEmpty,
	}, OperatorsFor(VariantNumber))
	assert.Equal(t, []Operator{OpIsTrue, OpIsFalse}, OperatorsFor(VariantCheckbox))
}

func TestRebindOnVariantSwitch(t *testing.T) {
	f := Filter{ColumnID: "c", Operator: OpBetween, Value: 1.0, Value2: 5.0}

	got := f.Rebind(VariantShortText)
	assert.Equal(t, OpContains, got.Operator)
	assert.Nil(t, got.Value2, "stale range operand must drop")

	ops := OperatorsFor(VariantShortText)
	assert.Contains(t, ops, got.Operator, "rebound operator must be listed for the new variant")
}

func TestOperatorOperandRequirements(t *testing.T) {
	assert.False(t, OpIsEmpty.NeedsValue())
	assert.False(t, OpIsTrue.NeedsValue())
	assert.True(t, OpContains.NeedsValue())
	assert.True(t, OpBetween.NeedsSecondValue())
	assert.False(t, OpIs.NeedsSecondValue())
}

func TestTextOperators(t *testing.T) {
	col := Column{ID: "t", Variant: VariantShortText}
	match := func(op Operator, operand any, cell any) bool {
		return Filter{Operator: op, Value: operand}.Match(col, cell)
	}

	assert.True(t, match(OpContains, "ell", "Hello"))
	assert.False(t, match(OpContains, "zzz", "Hello"))
	assert.True(t, match(OpDoesNotContain, "zzz", "Hello"))
	assert.True(t, match(OpIs, "hello", "Hello"))
	assert.True(t, match(OpIsNot, "bye", "Hello"))
	assert.True(t, match(OpStartsWith, "he", "Hello"))
	assert.True(t, match(OpEndsWith, "lo", "Hello"))

	empty := Filter{Operator: OpIsEmpty}
	assert.True(t, empty.Match(col, ""))
	assert.True(t, empty.Match(col, nil))
	assert.False(t, empty.Match(col, "x"))
	notEmpty := Filter{Operator: OpIsNotEmpty}
	assert.True(t, notEmpty.Match(col, "x"))
}

func TestNumberOperators(t *testing.T) {
	col := Column{ID: "n", Variant: VariantNumber}
	match := func(op Operator, v, v2 any, cell any) bool {
		return Filter{Operator: op, Value: v, Value2: v2}.Match(col, cell)
	}

	assert.True(t, match(OpIs, 3.0, nil, 3.0))
	assert.True(t, match(OpGreaterThan, 2.0, nil, 3.0))
	assert.False(t, match(OpGreaterThan, 3.0, nil, 3.0))
	assert.True(t, match(OpGreaterOrEqual, 3.0, nil, 3.0))
	assert.True(t, match(OpLessThan, 4.0, nil, 3.0))
	assert.True(t, match(OpBetween, 1.0, 5.0, 3.0))
	assert.False(t, match(OpBetween, 4.0, 5.0, 3.0))
	// reversed bounds still form a valid interval
	assert.True(t, match(OpBetween, 5.0, 1.0, 3.0))
	// string operands coerce
	assert.True(t, match(OpIs, "3", nil, 3.0))
}

func TestMissingOperandHasNoEffect(t *testing.T) {
	col := Column{ID: "n", Variant: VariantNumber}

	f := Filter{Operator: OpBetween, Value: 1.0, Value2: nil}
	assert.True(t, f.Match(col, 99.0), "between with a missing bound must not filter")

	f = Filter{Operator: OpGreaterThan, Value: nil}
	assert.True(t, f.Match(col, -5.0))

	text := Column{ID: "t", Variant: VariantShortText}
	f = Filter{Operator: OpContains, Value: ""}
	assert.True(t, f.Match(text, "anything"))
}

func TestDateOperators(t *testing.T) {
	col := Column{ID: "d", Variant: VariantDate}
	match := func(op Operator, v, v2 any, cell any) bool {
		return Filter{Operator: op, Value: v, Value2: v2}.Match(col, cell)
	}

	assert.True(t, match(OpIs, "2024-05-01", nil, "2024-05-01"))
	assert.True(t, match(OpGreaterThan, "2024-04-30", nil, "2024-05-01"))
	assert.True(t, match(OpLessOrEqual, "2024-05-01", nil, "2024-05-01"))
	assert.True(t, match(OpBetween, "2024-04-01", "2024-06-01", "2024-05-01"))
	assert.False(t, match(OpBetween, "2024-06-01", "2024-07-01", "2024-05-01"))
}

func TestSelectOperators(t *testing.T) {
	col := Column{ID: "s", Variant: VariantSelect}
	match := func(op Operator, operand any, cell any) bool {
		return Filter{Operator: op, Value: operand}.Match(col, cell)
	}

	assert.True(t, match(OpIs, "todo", "todo"))
	assert.True(t, match(OpIsNot, "done", "todo"))
	assert.True(t, match(OpIsAnyOf, []string{"todo", "done"}, "todo"))
	assert.False(t, match(OpIsAnyOf, []string{"done"}, "todo"))
	assert.True(t, match(OpIsNoneOf, []string{"done"}, "todo"))
}

func TestMultiSelectOperators(t *testing.T) {
	col := Column{ID: "m", Variant: VariantMultiSelect}
	match := func(op Operator, operand any, cell any) bool {
		return Filter{Operator: op, Value: operand}.Match(col, cell)
	}

	assert.True(t, match(OpHasAnyOf, []string{"red"}, []string{"red", "blue"}))
	assert.False(t, match(OpHasAnyOf, []string{"green"}, []string{"red", "blue"}))
	assert.True(t, match(OpHasNoneOf, []string{"green"}, []string{"red", "blue"}))
	assert.False(t, match(OpHasNoneOf, []string{"blue"}, []string{"red", "blue"}))

	empty := Filter{Operator: OpIsEmpty}
	assert.True(t, empty.Match(col, []string{}))
	assert.False(t, empty.Match(col, []string{"red"}))
}

func TestCheckboxOperators(t *testing.T) {
	col := Column{ID: "c", Variant: VariantCheckbox}
	assert.True(t, Filter{Operator: OpIsTrue}.Match(col, true))
	assert.False(t, Filter{Operator: OpIsTrue}.Match(col, false))
	assert.True(t, Filter{Operator: OpIsFalse}.Match(col, false))
	assert.True(t, Filter{Operator: OpIsFalse}.Match(col, nil))
}

func TestFilterRows(t *testing.T) {
	cols := testColumns()
	data := newFakeData(cols, 6)
	valueAt := func(row int, columnID string) any { return data.rows[row][columnID] }

	filters := []Filter{{ColumnID: "amount", Operator: OpGreaterOrEqual, Value: 3.0}}
	got := FilterRows(cols, 6, filters, valueAt)
	assert.Equal(t, []int{3, 4, 5}, got)

	// a filter on an unknown column is skipped
	filters = append(filters, Filter{ColumnID: "ghost", Operator: OpIs, Value: "x"})
	assert.Equal(t, []int{3, 4, 5}, FilterRows(cols, 6, filters, valueAt))
}
