package listing_test

import (
	"testing"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func genListing(t *rapid.T, label string) models.Listing {
	status := rapid.SampledFrom([]models.ListingStatus{
		models.ListingStatusPending,
		models.ListingStatusApproved,
		models.ListingStatusRejected,
	}).Draw(t, label+"Status")

	createdAt := time.Unix(rapid.Int64Range(1_600_000_000, 1_800_000_000).Draw(t, label+"CreatedAt"), 0)

	if rapid.Bool().Draw(t, label+"IsProject") {
		p := models.Project{
			ID:            uuid.New(),
			OwnerAgentID:  uuid.New(),
			Name:          rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(t, label+"Name"),
			Description:   "development",
			PropertyType:  models.PropertyTypeApartment,
			LocationState: rapid.SampledFrom([]string{"La Paz", "Santa Cruz", "Cochabamba"}).Draw(t, label+"State"),
			LocationCity:  rapid.SampledFrom([]string{"La Paz", "Santa Cruz", "Cochabamba"}).Draw(t, label+"City"),
			Address:       rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`).Draw(t, label+"Address"),
			Status:        status,
			CreatedAt:     createdAt,
		}
		return p.ToListing()
	}

	p := models.Property{
		ID:              uuid.New(),
		OwnerAgentID:    uuid.New(),
		Title:           rapid.StringMatching(`[A-Za-z ]{1,20}`).Draw(t, label+"Title"),
		Price:           decimal.NewFromInt(rapid.Int64Range(1, 1_000_000).Draw(t, label+"Price")),
		Currency:        models.CurrencyBolivianos,
		Bedrooms:        rapid.IntRange(0, 10).Draw(t, label+"Bedrooms"),
		Bathrooms:       rapid.IntRange(0, 10).Draw(t, label+"Bathrooms"),
		SquareMeters:    float64(rapid.IntRange(10, 1000).Draw(t, label+"SquareMeters")),
		PropertyType:    rapid.SampledFrom([]models.PropertyType{models.PropertyTypeHouse, models.PropertyTypeApartment, models.PropertyTypeOffice, models.PropertyTypeLand}).Draw(t, label+"PropertyType"),
		TransactionType: rapid.SampledFrom([]models.TransactionType{models.TransactionTypeSale, models.TransactionTypeRent, models.TransactionTypeAnticretico}).Draw(t, label+"TransactionType"),
		LocationState:   rapid.SampledFrom([]string{"La Paz", "Santa Cruz", "Cochabamba"}).Draw(t, label+"State"),
		LocationCity:    rapid.SampledFrom([]string{"La Paz", "Santa Cruz", "Cochabamba"}).Draw(t, label+"City"),
		Address:         rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`).Draw(t, label+"Address"),
		Status:          status,
		CreatedAt:       createdAt,
	}
	return p.ToListing()
}

func genListings(t *rapid.T) []models.Listing {
	n := rapid.IntRange(0, 30).Draw(t, "count")
	items := make([]models.Listing, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, genListing(t, rapid.StringMatching(`l[0-9]{4}`).Draw(t, "label")))
	}
	return items
}

func genSpec(t *rapid.T) listing.FilterSpec {
	var f listing.FilterSpec
	if rapid.Bool().Draw(t, "hasStatus") {
		s := rapid.SampledFrom([]models.ListingStatus{
			models.ListingStatusPending,
			models.ListingStatusApproved,
			models.ListingStatusRejected,
		}).Draw(t, "status")
		f.Status = &s
	}
	if rapid.Bool().Draw(t, "hasMinPrice") {
		d := decimal.NewFromInt(rapid.Int64Range(0, 1_000_000).Draw(t, "minPrice"))
		f.MinPrice = &d
	}
	if rapid.Bool().Draw(t, "hasMaxPrice") {
		d := decimal.NewFromInt(rapid.Int64Range(0, 1_000_000).Draw(t, "maxPrice"))
		f.MaxPrice = &d
	}
	if rapid.Bool().Draw(t, "hasMinBedrooms") {
		n := rapid.IntRange(0, 10).Draw(t, "minBedrooms")
		f.MinBedrooms = &n
	}
	if rapid.Bool().Draw(t, "hasCity") {
		c := rapid.SampledFrom([]string{"La Paz", "Santa Cruz", "Cochabamba"}).Draw(t, "city")
		f.LocationCity = &c
	}
	return f
}

// Applying a filter twice yields the same result as applying it once.
func TestApplyIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		spec := genSpec(t)

		once := listing.Apply(items, spec)
		twice := listing.Apply(once, spec)

		if len(once) != len(twice) {
			t.Fatalf("second application changed result size: %d vs %d", len(once), len(twice))
		}
		for i := range once {
			if once[i].ID != twice[i].ID {
				t.Fatalf("second application changed result order at %d", i)
			}
		}
	})
}

// Every filtered result comes from the input and passes the filter.
func TestApplyResultsAreMatchingSubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		spec := genSpec(t)

		byID := make(map[uuid.UUID]bool, len(items))
		for _, l := range items {
			byID[l.ID] = true
		}

		for _, l := range listing.Apply(items, spec) {
			if !byID[l.ID] {
				t.Fatalf("result %s not present in input", l.ID)
			}
			if !listing.Matches(l, spec) {
				t.Fatalf("result %s does not match the filter", l.ID)
			}
		}
	})
}

// No matching listing is dropped.
func TestApplyKeepsAllMatches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		spec := genSpec(t)

		want := 0
		for _, l := range items {
			if listing.Matches(l, spec) {
				want++
			}
		}
		if got := len(listing.Apply(items, spec)); got != want {
			t.Fatalf("Apply() kept %d listings, want %d", got, want)
		}
	})
}

// Results come back sorted by creation time, newest first.
func TestApplySortedNewestFirst(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		out := listing.Apply(items, genSpec(t))
		for i := 1; i < len(out); i++ {
			if out[i].CreatedAt.After(out[i-1].CreatedAt) {
				t.Fatalf("results out of order at %d: %v after %v", i, out[i].CreatedAt, out[i-1].CreatedAt)
			}
		}
	})
}

// Adding a constraint to a spec never grows the result set.
func TestApplyConstraintNarrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		spec := genSpec(t)

		narrowed := spec
		n := rapid.IntRange(0, 10).Draw(t, "extraMinBedrooms")
		if spec.MinBedrooms != nil && *spec.MinBedrooms > n {
			n = *spec.MinBedrooms
		}
		narrowed.MinBedrooms = &n

		wide := listing.Apply(items, spec)
		narrow := listing.Apply(items, narrowed)
		if len(narrow) > len(wide) {
			t.Fatalf("narrowed spec returned %d listings, wider spec %d", len(narrow), len(wide))
		}

		inWide := make(map[uuid.UUID]bool, len(wide))
		for _, l := range wide {
			inWide[l.ID] = true
		}
		for _, l := range narrow {
			if !inWide[l.ID] {
				t.Fatalf("narrowed result %s missing from wider result", l.ID)
			}
		}
	})
}

// Status counts partition the collection: they sum to its size.
func TestCountByStatusPartitions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genListings(t)
		counts := listing.CountByStatus(items)
		if counts.Total() != len(items) {
			t.Fatalf("counts sum to %d, want %d", counts.Total(), len(items))
		}
	})
}
