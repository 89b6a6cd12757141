package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Size int     `validate:"gt=1"`
	Rate float64 `validate:"gte=0,lte=1"`
	Kind string  `validate:"omitempty,oneof=linear sqrt"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Size: 2, Rate: 0.5}))
	assert.NoError(t, Struct(sample{Size: 2, Rate: 1, Kind: "sqrt"}))

	err := Struct(sample{Size: 1, Rate: 0.5})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Size")
		assert.Contains(t, err.Error(), "gt=1")
	}

	err = Struct(sample{Size: 3, Rate: 1.5})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Rate")
	}

	assert.Error(t, Struct(sample{Size: 3, Kind: "cubic"}))
}
