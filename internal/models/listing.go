package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingStatus represents the moderation status of a listing
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "PENDING"
	ListingStatusApproved ListingStatus = "APPROVED"
	ListingStatusRejected ListingStatus = "REJECTED"
)

// Valid reports whether s is one of the defined statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected:
		return true
	}
	return false
}

// ListingKind discriminates the two listing entity types
type ListingKind string

const (
	ListingKindProperty ListingKind = "property"
	ListingKindProject  ListingKind = "project"
)

// Listing is the shared read model over properties and projects. The filter
// engine and dashboard counts operate on this shape; fields that only exist
// for one kind are pointers and stay nil for the other.
type Listing struct {
	ID               uuid.UUID        `json:"id"`
	Kind             ListingKind      `json:"kind"`
	OwnerAgentID     uuid.UUID        `json:"owner_agent_id"`
	AgencyID         *uuid.UUID       `json:"agency_id,omitempty"`
	Title            string           `json:"title"`
	Description      *string          `json:"description,omitempty"`
	Status           ListingStatus    `json:"status"`
	StatusLabel      string           `json:"status_label"`
	StatusVariant    string           `json:"status_variant"`
	RejectionMessage *string          `json:"rejection_message,omitempty"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	Currency         *Currency        `json:"currency,omitempty"`
	Bedrooms         *int             `json:"bedrooms,omitempty"`
	Bathrooms        *int             `json:"bathrooms,omitempty"`
	SquareMeters     *float64         `json:"square_meters,omitempty"`
	PropertyType     *PropertyType    `json:"property_type,omitempty"`
	TransactionType  *TransactionType `json:"transaction_type,omitempty"`
	LocationState    *string          `json:"location_state,omitempty"`
	LocationCity     *string          `json:"location_city,omitempty"`
	Address          *string          `json:"address,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// statusLabels maps each status to its display label. Kept in one place so
// dashboards and notifications cannot drift apart.
var statusLabels = map[ListingStatus]string{
	ListingStatusPending:  "Pendiente",
	ListingStatusApproved: "Aprobado",
	ListingStatusRejected: "Rechazado",
}

// statusVariants maps each status to a badge style token consumed by clients.
var statusVariants = map[ListingStatus]string{
	ListingStatusPending:  "warning",
	ListingStatusApproved: "success",
	ListingStatusRejected: "destructive",
}

// StatusLabel returns the human-readable label for a status.
func StatusLabel(s ListingStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// StatusVariant returns the badge style token for a status.
func StatusVariant(s ListingStatus) string {
	if v, ok := statusVariants[s]; ok {
		return v
	}
	return "default"
}
