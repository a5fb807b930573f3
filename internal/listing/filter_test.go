package listing_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string                                { return &s }
func intPtr(n int) *int                                      { return &n }
func decPtr(s string) *decimal.Decimal                       { d := decimal.RequireFromString(s); return &d }
func statusPtr(s models.ListingStatus) *models.ListingStatus { return &s }

func makeProperty(title, address, city string, price string, bedrooms int, status models.ListingStatus, createdAt time.Time) models.Listing {
	p := models.Property{
		ID:              uuid.New(),
		OwnerAgentID:    uuid.New(),
		Title:           title,
		Price:           decimal.RequireFromString(price),
		Currency:        models.CurrencyBolivianos,
		Bedrooms:        bedrooms,
		Bathrooms:       2,
		SquareMeters:    120,
		PropertyType:    models.PropertyTypeHouse,
		TransactionType: models.TransactionTypeSale,
		LocationState:   "La Paz",
		LocationCity:    city,
		Address:         address,
		Status:          status,
		CreatedAt:       createdAt,
	}
	return p.ToListing()
}

func makeProject(name, city string, status models.ListingStatus, createdAt time.Time) models.Listing {
	p := models.Project{
		ID:            uuid.New(),
		OwnerAgentID:  uuid.New(),
		Name:          name,
		Description:   "multi-unit development",
		PropertyType:  models.PropertyTypeApartment,
		LocationState: "Santa Cruz",
		LocationCity:  city,
		Address:       "Av. Principal 100",
		Status:        status,
		CreatedAt:     createdAt,
	}
	return p.ToListing()
}

func TestMatchesPriceBounds(t *testing.T) {
	l := makeProperty("Casa Sur", "Calle 5", "La Paz", "250000", 3, models.ListingStatusApproved, time.Now())

	tests := []struct {
		name string
		spec listing.FilterSpec
		want bool
	}{
		{"no bounds", listing.FilterSpec{}, true},
		{"min above price excludes", listing.FilterSpec{MinPrice: decPtr("300000")}, false},
		{"inclusive range includes", listing.FilterSpec{MinPrice: decPtr("200000"), MaxPrice: decPtr("300000")}, true},
		{"min equal to price includes", listing.FilterSpec{MinPrice: decPtr("250000")}, true},
		{"max equal to price includes", listing.FilterSpec{MaxPrice: decPtr("250000")}, true},
		{"max below price excludes", listing.FilterSpec{MaxPrice: decPtr("249999.99")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listing.Matches(l, tt.spec); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesProjectLacksBoundedAttributes(t *testing.T) {
	// Projects carry no single price or room count, so any price or
	// bedroom bound must exclude them.
	l := makeProject("Torre Norte", "Santa Cruz", models.ListingStatusApproved, time.Now())

	if listing.Matches(l, listing.FilterSpec{MinPrice: decPtr("1")}) {
		t.Error("project should fail a price bound")
	}
	if listing.Matches(l, listing.FilterSpec{MinBedrooms: intPtr(1)}) {
		t.Error("project should fail a bedroom bound")
	}
	if !listing.Matches(l, listing.FilterSpec{}) {
		t.Error("project should match an empty spec")
	}
	if !listing.Matches(l, listing.FilterSpec{LocationCity: strPtr("santa cruz")}) {
		t.Error("city match should be case-insensitive")
	}
}

func TestMatchesSearchSubstring(t *testing.T) {
	l := makeProperty("Apartamento moderno", "Rua Vila Madalena 42", "São Paulo", "500000", 2, models.ListingStatusApproved, time.Now())

	if !listing.Matches(l, listing.FilterSpec{Search: strPtr("Vila")}) {
		t.Error("search should match a substring of the address")
	}
	if !listing.Matches(l, listing.FilterSpec{Search: strPtr("moderno")}) {
		t.Error("search should match the title")
	}
	if listing.Matches(l, listing.FilterSpec{Search: strPtr("penthouse")}) {
		t.Error("search should not match an absent term")
	}
}

func TestApplySortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	older := makeProperty("Old", "A", "La Paz", "100000", 1, models.ListingStatusApproved, base)
	newer := makeProperty("New", "B", "La Paz", "100000", 1, models.ListingStatusApproved, base.Add(time.Hour))

	got := listing.Apply([]models.Listing{older, newer}, listing.FilterSpec{})
	if len(got) != 2 {
		t.Fatalf("Apply() returned %d listings, want 2", len(got))
	}
	if got[0].Title != "New" || got[1].Title != "Old" {
		t.Errorf("Apply() order = [%s, %s], want [New, Old]", got[0].Title, got[1].Title)
	}
}

func TestApplyStatusFilter(t *testing.T) {
	now := time.Now()
	items := []models.Listing{
		makeProperty("P1", "A", "La Paz", "100000", 1, models.ListingStatusPending, now),
		makeProperty("P2", "B", "La Paz", "100000", 1, models.ListingStatusPending, now),
		makeProperty("P3", "C", "La Paz", "100000", 1, models.ListingStatusApproved, now),
		makeProject("PR1", "Santa Cruz", models.ListingStatusRejected, now),
	}

	got := listing.Apply(items, listing.FilterSpec{Status: statusPtr(models.ListingStatusPending)})
	if len(got) != 2 {
		t.Errorf("Apply(status=PENDING) returned %d listings, want 2", len(got))
	}
}

func TestCountByStatus(t *testing.T) {
	now := time.Now()
	items := []models.Listing{
		makeProperty("P1", "A", "La Paz", "100000", 1, models.ListingStatusPending, now),
		makeProperty("P2", "B", "La Paz", "100000", 1, models.ListingStatusPending, now),
		makeProperty("P3", "C", "La Paz", "100000", 1, models.ListingStatusApproved, now),
		makeProject("PR1", "Santa Cruz", models.ListingStatusRejected, now),
	}

	counts := listing.CountByStatus(items)
	if counts.Pending != 2 || counts.Approved != 1 || counts.Rejected != 1 {
		t.Errorf("CountByStatus() = %+v, want {2 1 1}", counts)
	}
	if counts.Total() != 4 {
		t.Errorf("Total() = %d, want 4", counts.Total())
	}

	// Counts ignore any filter and cover the whole collection.
	if listing.CountByStatus(nil).Total() != 0 {
		t.Error("CountByStatus(nil) should be all zeros")
	}
}

func TestParseFilterSpec(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"empty", "", false},
		{"valid bounds", "minPrice=100&maxPrice=200&minBedrooms=1", false},
		{"valid enums", "status=approved&propertyType=house&transactionType=sale", false},
		{"non-numeric price", "minPrice=abc", true},
		{"non-integer bedrooms", "minBedrooms=2.5", true},
		{"unknown status", "status=ARCHIVED", true},
		{"unknown property type", "propertyType=CASTLE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			_, err = listing.ParseFilterSpec(values)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFilterSpec(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestParseFilterSpecValues(t *testing.T) {
	values, err := url.ParseQuery("search=casa&status=pending&minPrice=100000.50&maxBedrooms=4&minSquareMeters=80.5")
	if err != nil {
		t.Fatal(err)
	}

	spec, err := listing.ParseFilterSpec(values)
	if err != nil {
		t.Fatalf("ParseFilterSpec() error = %v", err)
	}
	if spec.Search == nil || *spec.Search != "casa" {
		t.Errorf("Search = %v, want casa", spec.Search)
	}
	if spec.Status == nil || *spec.Status != models.ListingStatusPending {
		t.Errorf("Status = %v, want PENDING", spec.Status)
	}
	if spec.MinPrice == nil || !spec.MinPrice.Equal(decimal.RequireFromString("100000.50")) {
		t.Errorf("MinPrice = %v, want 100000.50", spec.MinPrice)
	}
	if spec.MaxBedrooms == nil || *spec.MaxBedrooms != 4 {
		t.Errorf("MaxBedrooms = %v, want 4", spec.MaxBedrooms)
	}
	if spec.MinSquareMeters == nil || *spec.MinSquareMeters != 80.5 {
		t.Errorf("MinSquareMeters = %v, want 80.5", spec.MinSquareMeters)
	}
}
