package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Round2 rounds half-up to two decimal places. Values too large to scale
// carry no fractional digits and are returned as is.
func Round2(x float64) float64 {
	scaled := x * 100
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return x
	}
	return math.Floor(scaled+0.5) / 100
}

// AverageRating returns the rounded mean rating, or nil when there are no reviews.
func AverageRating(reviews []Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := Round2(sum / float64(len(reviews)))
	return &avg
}

// DiscountPercent returns the integer prefix of an offer description such as
// "20% discount".
func DiscountPercent(details string) (int, error) {
	prefix, _, found := strings.Cut(details, "%")
	if !found {
		return 0, fmt.Errorf("offer details %q carry no percentage", details)
	}
	pct, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, fmt.Errorf("offer details %q: %w", details, err)
	}
	return pct, nil
}

// DiscountAmount returns round2(price * pct / 100).
func DiscountAmount(price float64, pct int) float64 {
	return Round2(price * (float64(pct) / 100.0))
}

// DiscountedPrice applies the first offer to price. With no offers it is the
// rounded price, matching the rendered price.
func DiscountedPrice(price float64, offers []Offer) (float64, error) {
	if len(offers) == 0 {
		return Round2(price), nil
	}
	pct, err := DiscountPercent(offers[0].OfferDetails)
	if err != nil {
		return 0, err
	}
	return Round2(price - price*(float64(pct)/100.0)), nil
}

// NewOffer builds an offer for a product priced at price, computing its discount amount.
func NewOffer(details, coupon string, start, end Date, price float64) (Offer, error) {
	pct, err := DiscountPercent(details)
	if err != nil {
		return Offer{}, err
	}
	return Offer{
		OfferDetails:   details,
		CouponCode:     coupon,
		StartDate:      start,
		EndDate:        end,
		DiscountAmount: DiscountAmount(price, pct),
	}, nil
}
