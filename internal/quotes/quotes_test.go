package quotes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSourcePositivePrices(t *testing.T) {
	src := NewStaticSource(500)
	for i := 0; i < 10; i++ {
		price, err := src.LastPrice(context.Background(), "RELIANCE")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, price, 500.0)
		assert.LessOrEqual(t, price, 550.0)
	}
}

func TestStaticSourceDefaultsBase(t *testing.T) {
	src := NewStaticSource(0)
	assert.Equal(t, 1000.0, src.Base)

	src = NewStaticSource(-5)
	assert.Equal(t, 1000.0, src.Base)
}
