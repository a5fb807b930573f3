package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency represents the currency a price is quoted in
type Currency string

const (
	CurrencyBolivianos Currency = "BOLIVIANOS"
	CurrencyDollars    Currency = "DOLLARS"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c == CurrencyBolivianos || c == CurrencyDollars
}

// PropertyType represents the kind of real estate
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeOffice    PropertyType = "OFFICE"
	PropertyTypeLand      PropertyType = "LAND"
)

// Valid reports whether t is a supported property type.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeOffice, PropertyTypeLand:
		return true
	}
	return false
}

// TransactionType represents how a property is offered
type TransactionType string

const (
	TransactionTypeSale        TransactionType = "SALE"
	TransactionTypeRent        TransactionType = "RENT"
	TransactionTypeAnticretico TransactionType = "ANTICRETICO"
)

// Valid reports whether t is a supported transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeRent, TransactionTypeAnticretico:
		return true
	}
	return false
}

// Property represents a single-unit real-estate listing
type Property struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	OwnerAgentID     uuid.UUID        `json:"owner_agent_id" db:"owner_agent_id"`
	AgencyID         *uuid.UUID       `json:"agency_id,omitempty" db:"agency_id"`
	Title            string           `json:"title" db:"title"`
	Description      *string          `json:"description,omitempty" db:"description"`
	Price            decimal.Decimal  `json:"price" db:"price"`
	Currency         Currency         `json:"currency" db:"currency"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate,omitempty" db:"exchange_rate"`
	Bedrooms         int              `json:"bedrooms" db:"bedrooms"`
	Bathrooms        int              `json:"bathrooms" db:"bathrooms"`
	GarageSpaces     int              `json:"garage_spaces" db:"garage_spaces"`
	SquareMeters     float64          `json:"square_meters" db:"square_meters"`
	PropertyType     PropertyType     `json:"property_type" db:"property_type"`
	TransactionType  TransactionType  `json:"transaction_type" db:"transaction_type"`
	LocationState    string           `json:"location_state" db:"location_state"`
	LocationCity     string           `json:"location_city" db:"location_city"`
	LocationNeigh    *string          `json:"location_neigh,omitempty" db:"location_neigh"`
	Address          string           `json:"address" db:"address"`
	Latitude         *float64         `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64         `json:"longitude,omitempty" db:"longitude"`
	Status           ListingStatus    `json:"status" db:"status"`
	RejectionMessage *string          `json:"rejection_message,omitempty" db:"rejection_message"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// ToListing converts a property to the shared listing read model.
func (p *Property) ToListing() Listing {
	price := p.Price
	currency := p.Currency
	bedrooms := p.Bedrooms
	bathrooms := p.Bathrooms
	sqm := p.SquareMeters
	ptype := p.PropertyType
	ttype := p.TransactionType
	state := p.LocationState
	city := p.LocationCity
	addr := p.Address
	return Listing{
		ID:               p.ID,
		Kind:             ListingKindProperty,
		OwnerAgentID:     p.OwnerAgentID,
		AgencyID:         p.AgencyID,
		Title:            p.Title,
		Description:      p.Description,
		Status:           p.Status,
		StatusLabel:      StatusLabel(p.Status),
		StatusVariant:    StatusVariant(p.Status),
		RejectionMessage: p.RejectionMessage,
		Price:            &price,
		Currency:         &currency,
		Bedrooms:         &bedrooms,
		Bathrooms:        &bathrooms,
		SquareMeters:     &sqm,
		PropertyType:     &ptype,
		TransactionType:  &ttype,
		LocationState:    &state,
		LocationCity:     &city,
		Address:          &addr,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
