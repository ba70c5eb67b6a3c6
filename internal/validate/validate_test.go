package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Margin float64 `toml:"margin" validate:"gte=0"`
	Mode   string  `toml:"mode" validate:"omitempty,oneof=a b"`
	Count  int     `validate:"lte=3"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Margin: 1, Mode: "a", Count: 3}))

	err := Struct(sample{Margin: -1, Mode: "c", Count: 4})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "margin: must be >= 0")
		assert.Contains(t, err.Error(), "mode: must be one of [a b]")
		assert.Contains(t, err.Error(), "Count: must be <= 3")
	}
}

func TestIssues(t *testing.T) {
	assert.Nil(t, Issues(sample{}))

	issues := Issues(sample{Margin: -2})
	assert.Len(t, issues, 1)
	assert.Equal(t, "margin: must be >= 0 (got -2)", issues["sample.margin"])
}
