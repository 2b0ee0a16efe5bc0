package prices

import (
	"math"
	"strings"
)

func normalizeInput(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Input{}, ErrNameRequired
	}
	if !validPrice(in.ACPrice) {
		return Input{}, ErrInvalidACPrice
	}
	if !validPrice(in.DCPrice) {
		return Input{}, ErrInvalidDCPrice
	}
	return in, nil
}

func validPrice(v *float64) bool {
	if v == nil {
		return true
	}
	return !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}
