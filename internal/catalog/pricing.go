package catalog

import (
	"math"

	"github.com/erfrost/playreal-backend/internal/models"
)

// RangePrice prices a rating climb. baseMMRPrice is the price per 100
// rating points; the coefficient compounds the per-step price as the
// range climbs, so high-rating orders cost more per point.
func RangePrice(from, to, baseMMRPrice int, coefficient float64) float64 {
	if to <= from {
		return 0
	}
	steps := float64(to-from) / 100
	return steps * float64(baseMMRPrice) * (1 + coefficient*steps/100)
}

// RangeDays estimates completion time: baseMMRDays per 100 rating points.
func RangeDays(ratingRange []int, baseMMRDays int) float64 {
	if len(ratingRange) != 2 || ratingRange[1] <= ratingRange[0] {
		return 0
	}
	steps := float64(ratingRange[1]-ratingRange[0]) / 100
	return steps * float64(baseMMRDays)
}

// Quote is a priced cart line.
type Quote struct {
	Title string `json:"title"`
	Price int    `json:"price"`
	Days  int    `json:"days"`
}

// QuoteService prices one service order: base price plus the rating-range
// climb plus the chosen additionals.
func QuoteService(svc *models.CatalogService, ratingRange []int, additionals []models.Additional) Quote {
	var rangePrice float64
	if len(ratingRange) == 2 {
		rangePrice = RangePrice(ratingRange[0], ratingRange[1], svc.BaseMMRPrice, svc.CoefficientMMR)
	}
	total := float64(svc.BasePrice) + rangePrice
	for _, a := range additionals {
		total += float64(a.Price)
	}
	return Quote{
		Title: svc.Name,
		Price: int(math.Ceil(total)),
		Days:  int(math.Ceil(RangeDays(ratingRange, svc.BaseMMRDays))),
	}
}
