package market

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r, err := NewRegistry([]Security{
		{ID: "benco", Name: "Benco", InitialPrice: decimal.NewFromInt(50)},
		{ID: "monster", Name: "Monster", InitialPrice: decimal.NewFromInt(50)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []SecurityID{"benco", "monster"}, r.IDs())

	s, err := r.Lookup("monster")
	require.NoError(t, err)
	assert.Equal(t, "Monster", s.Name)

	_, err = r.Lookup("salomon")
	assert.True(t, errors.Is(err, ErrUnknownEntity))
}

func TestRegistryRejectsBadInput(t *testing.T) {
	_, err := NewRegistry([]Security{
		{ID: "a", InitialPrice: decimal.NewFromInt(20)},
		{ID: "a", InitialPrice: decimal.NewFromInt(20)},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Security{{ID: "", InitialPrice: decimal.NewFromInt(20)}})
	assert.Error(t, err)

	_, err = NewRegistry([]Security{{ID: "a", InitialPrice: decimal.Zero}})
	assert.Error(t, err)

	_, err = NewRegistry([]Security{{ID: "cheap", InitialPrice: decimal.NewFromInt(5)}})
	assert.Error(t, err)

	_, err = NewRegistry([]Security{{ID: "cheap", InitialPrice: decimal.RequireFromString("9.99")}})
	assert.Error(t, err)

	// the floor itself is a valid starting price
	r, err := NewRegistry([]Security{{ID: "floor", InitialPrice: PriceFloor}})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
