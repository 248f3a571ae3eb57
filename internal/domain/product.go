package domain

import "encoding/json"

// IDPrefix starts every product identifier.
const IDPrefix = "PDNO_"

// Product is the catalog aggregate. Reviews and offers live inside it and are
// loaded and saved together with it. AverageRating and DiscountedPrice are
// derived on read and never persisted.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Reviews         []Review `json:"reviews"`
	Offers          []Offer  `json:"offers"`
	AverageRating   *float64 `json:"averageRating"`
	DiscountedPrice *float64 `json:"discountedPrice"`
}

// MarshalJSON renders the price rounded and the collections as arrays, never null.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	out := plain(p)
	out.Price = Round2(p.Price)
	if out.Reviews == nil {
		out.Reviews = []Review{}
	}
	if out.Offers == nil {
		out.Offers = []Offer{}
	}
	return json.Marshal(out)
}

// Enrich computes the derived fields from the current reviews and offers.
func (p *Product) Enrich() error {
	p.AverageRating = AverageRating(p.Reviews)
	discounted, err := DiscountedPrice(p.Price, p.Offers)
	if err != nil {
		return err
	}
	p.DiscountedPrice = &discounted
	return nil
}

// Review is a customer review embedded in a Product.
type Review struct {
	Reviewer string  `json:"reviewer"`
	Comments string  `json:"comments"`
	Rating   float64 `json:"rating"`
}

// Offer is a discount embedded in a Product. DiscountAmount is always computed
// from the owning product's price.
type Offer struct {
	OfferDetails   string  `json:"offerdetails"`
	CouponCode     string  `json:"couponCode"`
	StartDate      Date    `json:"startDate"`
	EndDate        Date    `json:"endDate"`
	DiscountAmount float64 `json:"discountAmount"`
}

// ProductSummary is the listing projection of a Product.
type ProductSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// MarshalJSON renders the price rounded.
func (s ProductSummary) MarshalJSON() ([]byte, error) {
	type plain ProductSummary
	out := plain(s)
	out.Price = Round2(s.Price)
	return json.Marshal(out)
}
