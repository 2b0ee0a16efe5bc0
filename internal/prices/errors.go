package prices

import "errors"

var (
	// ErrNotFound indicates the price record does not exist.
	ErrNotFound = errors.New("price record not found")
	// ErrDuplicateName is returned when the unique name constraint rejects a write.
	ErrDuplicateName = errors.New("this company name already exists")
	// ErrNameRequired is returned for blank names.
	ErrNameRequired = errors.New("company name cannot be empty")
	// ErrInvalidACPrice rejects negative or non-numeric AC prices.
	ErrInvalidACPrice = errors.New("AC price must be a valid number")
	// ErrInvalidDCPrice rejects negative or non-numeric DC prices.
	ErrInvalidDCPrice = errors.New("DC price must be a valid number")
	// ErrInvalidID rejects non-positive identifiers.
	ErrInvalidID = errors.New("invalid ID")
)
