package importer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// accessor reads one upstream field and reports whether it held a usable value.
type accessor[T any] func(RawRecord) (T, bool)

// Ordered alias tables, first usable value wins.
var (
	nameAccessors = []accessor[string]{
		stringField("firma"),
		stringField("name"),
		stringField("company"),
		stringField("brand"),
	}
	acAccessors = []accessor[float64]{
		priceField("acFiyat"),
		priceField("ac_price"),
		priceField("ac"),
	}
	dcAccessors = []accessor[float64]{
		priceField("dcFiyat"),
		priceField("dc_price"),
		priceField("dc"),
	}
)

// Normalize maps raw upstream records onto candidates. The first non-empty
// name alias wins even when it is only whitespace; records whose resolved name
// trims to nothing are dropped, the rest keep their input order.
func Normalize(raw []RawRecord) []Candidate {
	out := make([]Candidate, 0, len(raw))
	for _, rec := range raw {
		if rec == nil {
			continue
		}
		name, _ := firstOf(rec, nameAccessors)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c := Candidate{Name: name}
		if v, ok := firstOf(rec, acAccessors); ok {
			c.ACPrice = &v
		}
		if v, ok := firstOf(rec, dcAccessors); ok {
			c.DCPrice = &v
		}
		out = append(out, c)
	}
	return out
}

func firstOf[T any](rec RawRecord, accessors []accessor[T]) (T, bool) {
	for _, get := range accessors {
		if v, ok := get(rec); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func stringField(key string) accessor[string] {
	return func(rec RawRecord) (string, bool) {
		s, ok := rec[key].(string)
		return s, ok && s != ""
	}
}

// priceField treats zero, negative and non-numeric values as absent.
func priceField(key string) accessor[float64] {
	return func(rec RawRecord) (float64, bool) {
		var (
			v   float64
			err error
		)
		switch raw := rec[key].(type) {
		case json.Number:
			v, err = raw.Float64()
		case float64:
			v = raw
		case int:
			v = float64(raw)
		case string:
			v, err = strconv.ParseFloat(strings.Replace(strings.TrimSpace(raw), ",", ".", 1), 64)
		default:
			return 0, false
		}
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return 0, false
		}
		return v, true
	}
}
