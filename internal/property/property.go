package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrPropertyNotOwned = errors.New("property not owned by agent")
	ErrInvalidPrice     = errors.New("invalid price: must be greater than zero")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrInvalidType      = errors.New("invalid property or transaction type")
	ErrInvalidRooms     = errors.New("bedrooms, bathrooms and garage spaces must not be negative")
	ErrInvalidArea      = errors.New("square meters must be greater than zero")
)

// Cache drops cached listing collections after a mutation.
type Cache interface {
	InvalidateListingScopes(ctx context.Context, agentID uuid.UUID) error
}

// Service handles property operations
type Service struct {
	db    *pgxpool.Pool
	cache Cache
}

// NewService creates a new property service
func NewService(db *pgxpool.Pool, cache Cache) *Service {
	return &Service{db: db, cache: cache}
}

// CreatePropertyRequest represents a request to create a property
type CreatePropertyRequest struct {
	Title           string                 `json:"title" binding:"required,min=1,max=200"`
	Description     *string                `json:"description,omitempty"`
	Price           decimal.Decimal        `json:"price" binding:"required"`
	Currency        models.Currency        `json:"currency" binding:"required"`
	ExchangeRate    *decimal.Decimal       `json:"exchange_rate,omitempty"`
	Bedrooms        int                    `json:"bedrooms"`
	Bathrooms       int                    `json:"bathrooms"`
	GarageSpaces    int                    `json:"garage_spaces"`
	SquareMeters    float64                `json:"square_meters" binding:"required"`
	PropertyType    models.PropertyType    `json:"property_type" binding:"required"`
	TransactionType models.TransactionType `json:"transaction_type" binding:"required"`
	LocationState   string                 `json:"location_state" binding:"required"`
	LocationCity    string                 `json:"location_city" binding:"required"`
	LocationNeigh   *string                `json:"location_neigh,omitempty"`
	Address         string                 `json:"address" binding:"required"`
	Latitude        *float64               `json:"latitude,omitempty"`
	Longitude       *float64               `json:"longitude,omitempty"`
}

// UpdatePropertyRequest represents a partial update. Ownership and status
// are not updatable through this path.
type UpdatePropertyRequest struct {
	Title           *string                 `json:"title,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	Price           *decimal.Decimal        `json:"price,omitempty"`
	Currency        *models.Currency        `json:"currency,omitempty"`
	ExchangeRate    *decimal.Decimal        `json:"exchange_rate,omitempty"`
	Bedrooms        *int                    `json:"bedrooms,omitempty"`
	Bathrooms       *int                    `json:"bathrooms,omitempty"`
	GarageSpaces    *int                    `json:"garage_spaces,omitempty"`
	SquareMeters    *float64                `json:"square_meters,omitempty"`
	PropertyType    *models.PropertyType    `json:"property_type,omitempty"`
	TransactionType *models.TransactionType `json:"transaction_type,omitempty"`
	LocationState   *string                 `json:"location_state,omitempty"`
	LocationCity    *string                 `json:"location_city,omitempty"`
	LocationNeigh   *string                 `json:"location_neigh,omitempty"`
	Address         *string                 `json:"address,omitempty"`
	Latitude        *float64                `json:"latitude,omitempty"`
	Longitude       *float64                `json:"longitude,omitempty"`
}

// Validate checks the create request fields that gin binding cannot express.
func (req *CreatePropertyRequest) Validate() error {
	if !req.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if !req.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if !req.PropertyType.Valid() || !req.TransactionType.Valid() {
		return ErrInvalidType
	}
	if req.Bedrooms < 0 || req.Bathrooms < 0 || req.GarageSpaces < 0 {
		return ErrInvalidRooms
	}
	if req.SquareMeters <= 0 {
		return ErrInvalidArea
	}
	return nil
}

const propertyColumns = `
	id, owner_agent_id, agency_id, title, description, price, currency,
	exchange_rate, bedrooms, bathrooms, garage_spaces, square_meters,
	property_type, transaction_type, location_state, location_city,
	location_neigh, address, latitude, longitude, status, rejection_message,
	created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.OwnerAgentID, &p.AgencyID, &p.Title, &p.Description,
		&p.Price, &p.Currency, &p.ExchangeRate, &p.Bedrooms, &p.Bathrooms,
		&p.GarageSpaces, &p.SquareMeters, &p.PropertyType, &p.TransactionType,
		&p.LocationState, &p.LocationCity, &p.LocationNeigh, &p.Address,
		&p.Latitude, &p.Longitude, &p.Status, &p.RejectionMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a property owned by the acting agent. New properties
// always start PENDING and enter the moderation queue.
func (s *Service) Create(ctx context.Context, actor models.Actor, agencyID *uuid.UUID, req *CreatePropertyRequest) (*models.Property, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO properties (
			owner_agent_id, agency_id, title, description, price, currency,
			exchange_rate, bedrooms, bathrooms, garage_spaces, square_meters,
			property_type, transaction_type, location_state, location_city,
			location_neigh, address, latitude, longitude, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING `+propertyColumns,
		actor.ID, agencyID, req.Title, req.Description, req.Price, req.Currency,
		req.ExchangeRate, req.Bedrooms, req.Bathrooms, req.GarageSpaces,
		req.SquareMeters, req.PropertyType, req.TransactionType,
		req.LocationState, req.LocationCity, req.LocationNeigh, req.Address,
		req.Latitude, req.Longitude, models.ListingStatusPending,
	)
	p, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	monitoring.RecordListingCreated(string(models.ListingKindProperty))
	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, actor.ID)
	}
	return p, nil
}

// GetByID retrieves a property by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := scanProperty(s.db.QueryRow(ctx,
		"SELECT"+propertyColumns+" FROM properties WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return p, nil
}

// ListByOwner retrieves all properties owned by an agent, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerAgentID uuid.UUID) ([]models.Property, error) {
	rows, err := s.db.Query(ctx,
		"SELECT"+propertyColumns+" FROM properties WHERE owner_agent_id = $1 ORDER BY created_at DESC",
		ownerAgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var out []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return out, nil
}

// Update applies a partial update to a property the actor owns.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor models.Actor, req *UpdatePropertyRequest) (*models.Property, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerAgentID != actor.ID {
		return nil, ErrPropertyNotOwned
	}

	applyPropertyUpdate(p, req)

	if !p.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !p.Currency.Valid() {
		return nil, ErrInvalidCurrency
	}
	if !p.PropertyType.Valid() || !p.TransactionType.Valid() {
		return nil, ErrInvalidType
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.GarageSpaces < 0 {
		return nil, ErrInvalidRooms
	}
	if p.SquareMeters <= 0 {
		return nil, ErrInvalidArea
	}

	row := s.db.QueryRow(ctx, `
		UPDATE properties SET
			title = $1, description = $2, price = $3, currency = $4,
			exchange_rate = $5, bedrooms = $6, bathrooms = $7,
			garage_spaces = $8, square_meters = $9, property_type = $10,
			transaction_type = $11, location_state = $12, location_city = $13,
			location_neigh = $14, address = $15, latitude = $16,
			longitude = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING `+propertyColumns,
		p.Title, p.Description, p.Price, p.Currency, p.ExchangeRate,
		p.Bedrooms, p.Bathrooms, p.GarageSpaces, p.SquareMeters,
		p.PropertyType, p.TransactionType, p.LocationState, p.LocationCity,
		p.LocationNeigh, p.Address, p.Latitude, p.Longitude, id,
	)
	updated, err := scanProperty(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, actor.ID)
	}
	return updated, nil
}

func applyPropertyUpdate(p *models.Property, req *UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.ExchangeRate != nil {
		p.ExchangeRate = req.ExchangeRate
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.GarageSpaces != nil {
		p.GarageSpaces = *req.GarageSpaces
	}
	if req.SquareMeters != nil {
		p.SquareMeters = *req.SquareMeters
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.TransactionType != nil {
		p.TransactionType = *req.TransactionType
	}
	if req.LocationState != nil {
		p.LocationState = *req.LocationState
	}
	if req.LocationCity != nil {
		p.LocationCity = *req.LocationCity
	}
	if req.LocationNeigh != nil {
		p.LocationNeigh = req.LocationNeigh
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
}
