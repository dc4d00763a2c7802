package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erfrost/playreal-backend/internal/models"
)

func TestRangePrice(t *testing.T) {
	// flat coefficient: pure per-100-points pricing
	assert.InDelta(t, 500.0, RangePrice(1000, 1500, 100, 0), 0.001)

	// climbing 0 or backwards is free
	assert.Zero(t, RangePrice(1500, 1500, 100, 0))
	assert.Zero(t, RangePrice(1500, 1000, 100, 0))

	// coefficient makes wide ranges cost more per point
	narrow := RangePrice(1000, 1100, 100, 5) / 1
	wide := RangePrice(1000, 2000, 100, 5) / 10
	assert.Greater(t, wide, narrow)
}

func TestRangeDays(t *testing.T) {
	assert.InDelta(t, 6.0, RangeDays([]int{1000, 1300}, 2), 0.001)
	assert.Zero(t, RangeDays([]int{1300, 1000}, 2))
	assert.Zero(t, RangeDays([]int{1000}, 2))
}

func TestQuoteService(t *testing.T) {
	svc := &models.CatalogService{
		Name:           "MMR Boost",
		BasePrice:      500,
		BaseMMRPrice:   100,
		CoefficientMMR: 0,
		BaseMMRDays:    1,
	}
	q := QuoteService(svc, []int{1000, 1500}, []models.Additional{
		{Title: "Stream", Price: 200},
		{Title: "Priority", Price: 300},
	})

	assert.Equal(t, "MMR Boost", q.Title)
	assert.Equal(t, 1500, q.Price, "base 500 + range 500 + additionals 500")
	assert.Equal(t, 5, q.Days)
}

func TestQuoteServiceRoundsUp(t *testing.T) {
	svc := &models.CatalogService{BasePrice: 0, BaseMMRPrice: 100, CoefficientMMR: 0, BaseMMRDays: 1}
	q := QuoteService(svc, []int{1000, 1150}, nil)
	assert.Equal(t, 150, q.Price)
	assert.Equal(t, 2, q.Days, "1.5 days rounds up")
}
