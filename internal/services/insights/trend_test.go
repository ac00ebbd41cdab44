package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscope/internal/domain"
)

func TestCompare(t *testing.T) {
	assert.Equal(t, Trend{Direction: Up, Delta: 20}, Compare(80, 60))
	assert.Equal(t, Trend{Direction: Down, Delta: 20}, Compare(60, 80))
	assert.Equal(t, Trend{Direction: Flat}, Compare(60, 60))
	assert.Equal(t, -20.0, Compare(60, 80).Signed())
}

func TestHistoryTrends(t *testing.T) {
	history := []domain.HistoryPoint{
		{Month: "Mar", SearchScore: 80, OrganicTraffic: 1000},
		{Month: "Feb", SearchScore: 60, OrganicTraffic: 1000},
		{Month: "Jan", SearchScore: 70, OrganicTraffic: 1500},
	}
	trends := HistoryTrends(history)
	require.Len(t, trends, 3)

	assert.Equal(t, Trend{Direction: Up, Delta: 20}, trends[0].Score)
	assert.Equal(t, Trend{Direction: Flat}, trends[0].Traffic)
	assert.Equal(t, Trend{Direction: Down, Delta: 10}, trends[1].Score)
	assert.Equal(t, Trend{Direction: Down, Delta: 500}, trends[1].Traffic)
	assert.Nil(t, trends[2])
}

func TestHistoryTrendsEmpty(t *testing.T) {
	assert.Empty(t, HistoryTrends(nil))
	assert.Equal(t, []*PointTrends{nil}, HistoryTrends([]domain.HistoryPoint{{Month: "Jan"}}))
}
