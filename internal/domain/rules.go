package domain

import (
	"context"
	"regexp"

	"github.com/go-playground/validator/v10"

	pkgvalidator "github.com/Benitta1729/Product-application/pkg/validator"
)

var (
	productNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9]*[a-zA-Z][a-zA-Z0-9]*$`)
	offerDetailsPattern = regexp.MustCompile(`^\d+% discount$`)
)

// Validation tags registered for product payloads.
const (
	TagProductName  = "productname"
	TagOfferDetails = "offerdetails"
	TagTodayOrLater = "todayorlater"
	TagAfterToday   = "aftertoday"
)

func init() {
	pkgvalidator.Register(TagProductName, matches(productNamePattern))
	pkgvalidator.Register(TagOfferDetails, matches(offerDetailsPattern))
	pkgvalidator.RegisterCtx(TagTodayOrLater, dateRule(func(d, today Date) bool { return !d.Before(today) }))
	pkgvalidator.RegisterCtx(TagAfterToday, dateRule(func(d, today Date) bool { return d.After(today) }))

	pkgvalidator.RegisterMessages(map[string]string{
		"name.notblank":    "Name is required",
		"name.max":         "Name must have a length of 1 to 15 characters",
		"name.productname": "Name must be alpha-numeric",

		"description.notblank": "Description is required",

		"price.required": "Price is required",
		"price.gt":       "Price must be greater than zero",

		"reviewer.notblank": "Reviewer name is required",
		"reviewer.alphanum": "Reviewer name must be alphanumeric and have a length of 1 to 15 characters",
		"reviewer.max":      "Reviewer name must be alphanumeric and have a length of 1 to 15 characters",
		"comments.notblank": "comments are required",
		"rating.required":   "Rating is required",
		"rating.gte":        "Rating minimum is zero",
		"rating.lte":        "Rating maximum is 5",

		"offers.max": "A product can carry at most one offer",

		"offerdetails.notblank":     "offer details are required",
		"offerdetails.offerdetails": "Offer details must be in the format like '20% discount'",
		"couponCode.notblank":       "Coupon code is required",
		"startDate.required":        "startDate should not be null",
		"startDate.todayorlater":    "Start date must be in the present or future",
		"endDate.required":          "endDate should not be null",
		"endDate.aftertoday":        "End date must be in the future",
	})
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// dateRule compares a date field against today as seen by the validation
// context's clock.
func dateRule(ok func(d, today Date) bool) validator.FuncCtx {
	return func(ctx context.Context, fl validator.FieldLevel) bool {
		d, isDate := fl.Field().Interface().(Date)
		return isDate && !d.IsZero() && ok(d, TodayIn(ctx))
	}
}
