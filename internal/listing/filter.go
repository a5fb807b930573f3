package listing

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// FilterSpec holds the optional filter criteria applied to a listing
// collection. A nil field imposes no constraint; all specified predicates
// must hold (logical AND). Range bounds are inclusive.
type FilterSpec struct {
	Search          *string
	Status          *models.ListingStatus
	LocationState   *string
	LocationCity    *string
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	MinBedrooms     *int
	MaxBedrooms     *int
	MinBathrooms    *int
	MaxBathrooms    *int
	MinSquareMeters *float64
	MaxSquareMeters *float64
	PropertyType    *models.PropertyType
	TransactionType *models.TransactionType
}

// IsZero reports whether no criteria are set.
func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

// Matches reports whether a listing passes every specified predicate.
// Listings that lack an attribute a bound refers to (projects have no
// single price or room count) fail that bound.
func Matches(l models.Listing, f FilterSpec) bool {
	if f.Status != nil && l.Status != *f.Status {
		return false
	}
	if f.LocationState != nil && !equalsFold(l.LocationState, *f.LocationState) {
		return false
	}
	if f.LocationCity != nil && !equalsFold(l.LocationCity, *f.LocationCity) {
		return false
	}
	if f.PropertyType != nil && (l.PropertyType == nil || *l.PropertyType != *f.PropertyType) {
		return false
	}
	if f.TransactionType != nil && (l.TransactionType == nil || *l.TransactionType != *f.TransactionType) {
		return false
	}
	if !priceInRange(l.Price, f.MinPrice, f.MaxPrice) {
		return false
	}
	if !intInRange(l.Bedrooms, f.MinBedrooms, f.MaxBedrooms) {
		return false
	}
	if !intInRange(l.Bathrooms, f.MinBathrooms, f.MaxBathrooms) {
		return false
	}
	if !floatInRange(l.SquareMeters, f.MinSquareMeters, f.MaxSquareMeters) {
		return false
	}
	if f.Search != nil && !matchesSearch(l, *f.Search) {
		return false
	}
	return true
}

// Apply filters a collection and returns the matches sorted by creation
// time, newest first. The input slice is not modified.
func Apply(items []models.Listing, f FilterSpec) []models.Listing {
	out := make([]models.Listing, 0, len(items))
	if f.IsZero() {
		out = append(out, items...)
	} else {
		for _, l := range items {
			if Matches(l, f) {
				out = append(out, l)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// StatusCounts holds per-status listing counts for dashboard summary cards.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Total returns the sum of all counts.
func (c StatusCounts) Total() int {
	return c.Pending + c.Approved + c.Rejected
}

// CountByStatus counts listings per status over the full (unfiltered)
// collection.
func CountByStatus(items []models.Listing) StatusCounts {
	var c StatusCounts
	for _, l := range items {
		switch l.Status {
		case models.ListingStatusPending:
			c.Pending++
		case models.ListingStatusApproved:
			c.Approved++
		case models.ListingStatusRejected:
			c.Rejected++
		}
	}
	return c
}

// ParseFilterSpec builds a FilterSpec from request query parameters.
// Malformed numeric bounds and unknown enum values are rejected here so a
// bad filter never reaches the engine as one that silently matches nothing.
func ParseFilterSpec(values url.Values) (FilterSpec, error) {
	var f FilterSpec

	if v := strings.TrimSpace(values.Get("search")); v != "" {
		f.Search = &v
	}
	if v := values.Get("status"); v != "" {
		status := models.ListingStatus(strings.ToUpper(v))
		if !status.Valid() {
			return FilterSpec{}, fmt.Errorf("status must be one of PENDING, APPROVED, REJECTED")
		}
		f.Status = &status
	}
	if v := values.Get("locationState"); v != "" {
		f.LocationState = &v
	}
	if v := values.Get("locationCity"); v != "" {
		f.LocationCity = &v
	}
	if v := values.Get("propertyType"); v != "" {
		ptype := models.PropertyType(strings.ToUpper(v))
		if !ptype.Valid() {
			return FilterSpec{}, fmt.Errorf("propertyType is not a known property type")
		}
		f.PropertyType = &ptype
	}
	if v := values.Get("transactionType"); v != "" {
		ttype := models.TransactionType(strings.ToUpper(v))
		if !ttype.Valid() {
			return FilterSpec{}, fmt.Errorf("transactionType is not a known transaction type")
		}
		f.TransactionType = &ttype
	}

	var err error
	if f.MinPrice, err = parseDecimal(values, "minPrice"); err != nil {
		return FilterSpec{}, err
	}
	if f.MaxPrice, err = parseDecimal(values, "maxPrice"); err != nil {
		return FilterSpec{}, err
	}
	if f.MinBedrooms, err = parseInt(values, "minBedrooms"); err != nil {
		return FilterSpec{}, err
	}
	if f.MaxBedrooms, err = parseInt(values, "maxBedrooms"); err != nil {
		return FilterSpec{}, err
	}
	if f.MinBathrooms, err = parseInt(values, "minBathrooms"); err != nil {
		return FilterSpec{}, err
	}
	if f.MaxBathrooms, err = parseInt(values, "maxBathrooms"); err != nil {
		return FilterSpec{}, err
	}
	if f.MinSquareMeters, err = parseFloat(values, "minSquareMeters"); err != nil {
		return FilterSpec{}, err
	}
	if f.MaxSquareMeters, err = parseFloat(values, "maxSquareMeters"); err != nil {
		return FilterSpec{}, err
	}

	return f, nil
}

func parseDecimal(values url.Values, key string) (*decimal.Decimal, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &d, nil
}

func parseInt(values url.Values, key string) (*int, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func parseFloat(values url.Values, key string) (*float64, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

func matchesSearch(l models.Listing, term string) bool {
	term = strings.ToLower(term)
	parts := []string{l.Title}
	if l.Description != nil {
		parts = append(parts, *l.Description)
	}
	if l.Address != nil {
		parts = append(parts, *l.Address)
	}
	if l.LocationCity != nil {
		parts = append(parts, *l.LocationCity)
	}
	haystack := strings.ToLower(strings.Join(parts, " "))
	return strings.Contains(haystack, term)
}

func equalsFold(field *string, want string) bool {
	return field != nil && strings.EqualFold(*field, want)
}

func priceInRange(price, min, max *decimal.Decimal) bool {
	if min == nil && max == nil {
		return true
	}
	if price == nil {
		return false
	}
	if min != nil && price.Cmp(*min) < 0 {
		return false
	}
	if max != nil && price.Cmp(*max) > 0 {
		return false
	}
	return true
}

func intInRange(v, min, max *int) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}

func floatInRange(v, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}
