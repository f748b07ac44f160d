package schema

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
	maxPerPage     = 100
)

// ListQuery holds validated list query parameters. Nil filter pointers mean
// the corresponding constraint was not requested.
type ListQuery struct {
	Page     int
	PerPage  int
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
}

// ParseListQuery validates pagination and filter query parameters, collecting
// every violation. An absent in_stock parameter means no stock constraint,
// never false.
func ParseListQuery(values url.Values) (*ListQuery, Errors) {
	errs := Errors{}
	query := &ListQuery{Page: defaultPage, PerPage: defaultPerPage}

	if s := values.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		switch {
		case err != nil:
			errs.Add("page", "Not a valid integer.")
		case page < 1:
			errs.Add("page", "Must be greater than or equal to 1.")
		default:
			query.Page = page
		}
	}

	if s := values.Get("per_page"); s != "" {
		perPage, err := strconv.Atoi(s)
		switch {
		case err != nil:
			errs.Add("per_page", "Not a valid integer.")
		case perPage < 1 || perPage > maxPerPage:
			errs.Add("per_page", "Must be between 1 and 100.")
		default:
			query.PerPage = perPage
		}
	}

	if s := values.Get("in_stock"); s != "" {
		if inStock, ok := parseBoolParam(s); ok {
			query.InStock = &inStock
		} else {
			errs.Add("in_stock", "Not a valid boolean.")
		}
	}

	query.MinPrice = parsePriceParam(values.Get("min_price"), "min_price", errs)
	query.MaxPrice = parsePriceParam(values.Get("max_price"), "max_price", errs)

	if len(errs) > 0 {
		return nil, errs
	}
	return query, nil
}

// parseBoolParam accepts case-insensitive true/false (and 1/0) string forms.
func parseBoolParam(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func parsePriceParam(s, field string, errs Errors) *float64 {
	if s == "" {
		return nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		errs.Add(field, "Not a valid number.")
		return nil
	}
	if price < 0 {
		errs.Add(field, "Must be greater than or equal to 0.")
		return nil
	}
	return &price
}
