package validation

import (
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a struck-through old price below the selling price is always a data
	// entry mistake
	v.RegisterStructValidation(bookPriceStructValidation, BookRequest{})

	return v
}

func bookPriceStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(BookRequest)

	if req.OldPrice != 0 && req.OldPrice < req.NewPrice {
		sl.ReportError(req.OldPrice, "oldPrice", "OldPrice", "old_price_below_new",
			fmt.Sprintf("old price %.2f < new price %.2f", req.OldPrice, req.NewPrice))
	}
}
