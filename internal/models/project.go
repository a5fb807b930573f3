package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuadrantStatus represents the sale status of a single project unit
type QuadrantStatus string

const (
	QuadrantStatusAvailable   QuadrantStatus = "AVAILABLE"
	QuadrantStatusReserved    QuadrantStatus = "RESERVED"
	QuadrantStatusSold        QuadrantStatus = "SOLD"
	QuadrantStatusUnavailable QuadrantStatus = "UNAVAILABLE"
)

// Valid reports whether s is a supported quadrant status.
func (s QuadrantStatus) Valid() bool {
	switch s {
	case QuadrantStatusAvailable, QuadrantStatusReserved, QuadrantStatusSold, QuadrantStatusUnavailable:
		return true
	}
	return false
}

// Project represents a multi-unit development listing
type Project struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	OwnerAgentID     uuid.UUID     `json:"owner_agent_id" db:"owner_agent_id"`
	AgencyID         *uuid.UUID    `json:"agency_id,omitempty" db:"agency_id"`
	Name             string        `json:"name" db:"name"`
	Description      string        `json:"description" db:"description"`
	PropertyType     PropertyType  `json:"property_type" db:"property_type"`
	LocationState    string        `json:"location_state" db:"location_state"`
	LocationCity     string        `json:"location_city" db:"location_city"`
	Address          string        `json:"address" db:"address"`
	Latitude         *float64      `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64      `json:"longitude,omitempty" db:"longitude"`
	Status           ListingStatus `json:"status" db:"status"`
	RejectionMessage *string       `json:"rejection_message,omitempty" db:"rejection_message"`
	Floors           []Floor       `json:"floors,omitempty"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// Floor represents a level within a project
type Floor struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProjectID uuid.UUID  `json:"project_id" db:"project_id"`
	Number    int        `json:"number" db:"number"`
	Name      *string    `json:"name,omitempty" db:"name"`
	Quadrants []Quadrant `json:"quadrants,omitempty"`
}

// Quadrant represents a sellable unit on a floor
type Quadrant struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	FloorID   uuid.UUID        `json:"floor_id" db:"floor_id"`
	CustomID  string           `json:"custom_id" db:"custom_id"`
	Type      *string          `json:"type,omitempty" db:"type"`
	Area      *float64         `json:"area,omitempty" db:"area"`
	Bedrooms  *int             `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms *int             `json:"bathrooms,omitempty" db:"bathrooms"`
	Price     *decimal.Decimal `json:"price,omitempty" db:"price"`
	Status    QuadrantStatus   `json:"status" db:"status"`
}

// ToListing converts a project to the shared listing read model. Projects
// carry no single price or room count, so those filter fields stay nil.
func (p *Project) ToListing() Listing {
	desc := p.Description
	ptype := p.PropertyType
	state := p.LocationState
	city := p.LocationCity
	addr := p.Address
	return Listing{
		ID:               p.ID,
		Kind:             ListingKindProject,
		OwnerAgentID:     p.OwnerAgentID,
		AgencyID:         p.AgencyID,
		Title:            p.Name,
		Description:      &desc,
		Status:           p.Status,
		StatusLabel:      StatusLabel(p.Status),
		StatusVariant:    StatusVariant(p.Status),
		RejectionMessage: p.RejectionMessage,
		PropertyType:     &ptype,
		LocationState:    &state,
		LocationCity:     &city,
		Address:          &addr,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
