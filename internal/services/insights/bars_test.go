package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProportionalWidths(t *testing.T) {
	assert.Equal(t, []float64{100, 50, 25}, ProportionalWidths([]float64{100, 50, 25}))
	assert.Equal(t, []float64{50, 100}, ProportionalWidths([]float64{10, 20}))
	assert.Empty(t, ProportionalWidths(nil))
	assert.Equal(t, []float64{0, 0}, ProportionalWidths([]float64{0, 0}))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(1234567))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "72.5", FormatNumber(72.5))
	assert.Equal(t, "72", FormatNumber(72))
	assert.Equal(t, "1,500", FormatDelta(1500))
	assert.Equal(t, "2.5", FormatDelta(2.5))
	assert.Equal(t, "130%", CSSWidth(130))
}
