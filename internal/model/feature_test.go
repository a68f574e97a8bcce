package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"amt", "age", "gender", "trans_hour", "trans_day_of_week",
		"category_grocery_pos", "category_shopping_net", "category_misc_net",
	}, Columns(false))

	labeled := Columns(true)
	assert.Len(t, labeled, 9)
	assert.Equal(t, "is_fraud", labeled[8])
}

func TestColumns_DoesNotAliasFeatureColumns(t *testing.T) {
	cols := Columns(true)
	cols[0] = "changed"
	assert.Equal(t, "amt", FeatureColumns[0])
}

func TestFeatureVector_ValuesOrder(t *testing.T) {
	v := FeatureVector{
		Amount:      decimal.RequireFromString("12.50"),
		Age:         33,
		Gender:      1,
		Hour:        10,
		DayOfWeek:   4,
		GroceryPOS:  1,
		ShoppingNet: 0,
		MiscNet:     0,
	}
	assert.Equal(t, []float64{12.5, 33, 1, 10, 4, 1, 0, 0}, v.Values())
	assert.Len(t, v.Values(), NumFeatures)
}

func TestFeatureVector_Record(t *testing.T) {
	label := 1
	v := FeatureVector{
		Amount:    decimal.RequireFromString("4.97"),
		Age:       30,
		Hour:      0,
		DayOfWeek: 1,
		MiscNet:   1,
		Label:     &label,
	}
	assert.Equal(t, []string{"4.97", "30", "0", "0", "1", "0", "0", "1"}, v.Record(false))
	assert.Equal(t, []string{"4.97", "30", "0", "0", "1", "0", "0", "1", "1"}, v.Record(true))
}

func TestFeatureVector_RecordNilLabel(t *testing.T) {
	v := FeatureVector{Amount: decimal.Zero}
	row := v.Record(true)
	assert.Len(t, row, 9)
	assert.Empty(t, row[8])
}

func TestStageTerminal(t *testing.T) {
	tests := []struct {
		stage Stage
		want  bool
	}{
		{StageIngested, false},
		{StageValidated, false},
		{StageTransformed, true},
		{StageRejected, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.stage.Terminal(), "Terminal(%q)", tt.stage)
	}
}
