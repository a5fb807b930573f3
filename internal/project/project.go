package project

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
	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectNotOwned   = errors.New("project not owned by agent")
	ErrInvalidType       = errors.New("invalid property type")
	ErrNoFloors          = errors.New("project must have at least one floor")
	ErrDuplicateCustomID = errors.New("duplicate quadrant custom id within project")
	ErrInvalidQuadrant   = errors.New("invalid quadrant")
)

// Cache drops cached listing collections after a mutation.
type Cache interface {
	InvalidateListingScopes(ctx context.Context, agentID uuid.UUID) error
}

// Service handles project operations
type Service struct {
	db    *pgxpool.Pool
	cache Cache
}

// NewService creates a new project service
func NewService(db *pgxpool.Pool, cache Cache) *Service {
	return &Service{db: db, cache: cache}
}

// CreateQuadrantRequest describes one sellable unit on a floor.
type CreateQuadrantRequest struct {
	CustomID  string                `json:"custom_id" binding:"required"`
	Type      *string               `json:"type,omitempty"`
	Area      *float64              `json:"area,omitempty"`
	Bedrooms  *int                  `json:"bedrooms,omitempty"`
	Bathrooms *int                  `json:"bathrooms,omitempty"`
	Price     *decimal.Decimal      `json:"price,omitempty"`
	Status    models.QuadrantStatus `json:"status"`
}

// CreateFloorRequest describes one level of a project.
type CreateFloorRequest struct {
	Number    int                     `json:"number"`
	Name      *string                 `json:"name,omitempty"`
	Quadrants []CreateQuadrantRequest `json:"quadrants"`
}

// CreateProjectRequest represents a request to create a project with its
// full floor and quadrant layout.
type CreateProjectRequest struct {
	Name          string               `json:"name" binding:"required,min=1,max=200"`
	Description   string               `json:"description" binding:"required"`
	PropertyType  models.PropertyType  `json:"property_type" binding:"required"`
	LocationState string               `json:"location_state" binding:"required"`
	LocationCity  string               `json:"location_city" binding:"required"`
	Address       string               `json:"address" binding:"required"`
	Latitude      *float64             `json:"latitude,omitempty"`
	Longitude     *float64             `json:"longitude,omitempty"`
	Floors        []CreateFloorRequest `json:"floors" binding:"required"`
}

// UpdateProjectRequest represents a partial update of project metadata.
// The floor layout is replaced wholesale when Floors is non-nil.
type UpdateProjectRequest struct {
	Name          *string              `json:"name,omitempty"`
	Description   *string              `json:"description,omitempty"`
	PropertyType  *models.PropertyType `json:"property_type,omitempty"`
	LocationState *string              `json:"location_state,omitempty"`
	LocationCity  *string              `json:"location_city,omitempty"`
	Address       *string              `json:"address,omitempty"`
	Latitude      *float64             `json:"latitude,omitempty"`
	Longitude     *float64             `json:"longitude,omitempty"`
	Floors        []CreateFloorRequest `json:"floors,omitempty"`
}

// Validate checks the create request fields that gin binding cannot express.
func (req *CreateProjectRequest) Validate() error {
	if !req.PropertyType.Valid() {
		return ErrInvalidType
	}
	if len(req.Floors) == 0 {
		return ErrNoFloors
	}
	return validateFloors(req.Floors)
}

func validateFloors(floors []CreateFloorRequest) error {
	seen := make(map[string]struct{})
	for _, f := range floors {
		for _, q := range f.Quadrants {
			if q.CustomID == "" {
				return fmt.Errorf("%w: missing custom id", ErrInvalidQuadrant)
			}
			if _, dup := seen[q.CustomID]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateCustomID, q.CustomID)
			}
			seen[q.CustomID] = struct{}{}
			if q.Status != "" && !q.Status.Valid() {
				return fmt.Errorf("%w: unknown status %q", ErrInvalidQuadrant, q.Status)
			}
			if q.Price != nil && !q.Price.IsPositive() {
				return fmt.Errorf("%w: price must be greater than zero", ErrInvalidQuadrant)
			}
		}
	}
	return nil
}

const projectColumns = `
	id, owner_agent_id, agency_id, name, description, property_type,
	location_state, location_city, address, latitude, longitude, status,
	rejection_message, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.OwnerAgentID, &p.AgencyID, &p.Name, &p.Description,
		&p.PropertyType, &p.LocationState, &p.LocationCity, &p.Address,
		&p.Latitude, &p.Longitude, &p.Status, &p.RejectionMessage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a project with its floors and quadrants in a single
// transaction. New projects always start PENDING.
func (s *Service) Create(ctx context.Context, actor models.Actor, agencyID *uuid.UUID, req *CreateProjectRequest) (*models.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO projects (
			owner_agent_id, agency_id, name, description, property_type,
			location_state, location_city, address, latitude, longitude, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+projectColumns,
		actor.ID, agencyID, req.Name, req.Description, req.PropertyType,
		req.LocationState, req.LocationCity, req.Address, req.Latitude,
		req.Longitude, models.ListingStatusPending,
	)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	p.Floors, err = insertFloors(ctx, tx, p.ID, req.Floors)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	monitoring.RecordListingCreated(string(models.ListingKindProject))
	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, actor.ID)
	}
	return p, nil
}

func insertFloors(ctx context.Context, tx pgx.Tx, projectID uuid.UUID, floors []CreateFloorRequest) ([]models.Floor, error) {
	out := make([]models.Floor, 0, len(floors))
	for _, fr := range floors {
		var floor models.Floor
		err := tx.QueryRow(ctx, `
			INSERT INTO project_floors (project_id, number, name)
			VALUES ($1, $2, $3)
			RETURNING id, project_id, number, name`,
			projectID, fr.Number, fr.Name,
		).Scan(&floor.ID, &floor.ProjectID, &floor.Number, &floor.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create floor: %w", err)
		}

		for _, qr := range fr.Quadrants {
			status := qr.Status
			if status == "" {
				status = models.QuadrantStatusAvailable
			}
			var q models.Quadrant
			err := tx.QueryRow(ctx, `
				INSERT INTO project_quadrants (floor_id, custom_id, type, area, bedrooms, bathrooms, price, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING id, floor_id, custom_id, type, area, bedrooms, bathrooms, price, status`,
				floor.ID, qr.CustomID, qr.Type, qr.Area, qr.Bedrooms, qr.Bathrooms, qr.Price, status,
			).Scan(&q.ID, &q.FloorID, &q.CustomID, &q.Type, &q.Area, &q.Bedrooms, &q.Bathrooms, &q.Price, &q.Status)
			if err != nil {
				return nil, fmt.Errorf("failed to create quadrant: %w", err)
			}
			floor.Quadrants = append(floor.Quadrants, q)
		}
		out = append(out, floor)
	}
	return out, nil
}

// GetByID retrieves a project with its full floor and quadrant layout.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx,
		"SELECT"+projectColumns+" FROM projects WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	p.Floors, err = s.loadFloors(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) loadFloors(ctx context.Context, projectID uuid.UUID) ([]models.Floor, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, project_id, number, name
		FROM project_floors
		WHERE project_id = $1
		ORDER BY number ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load floors: %w", err)
	}
	defer rows.Close()

	var floors []models.Floor
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var f models.Floor
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Number, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan floor: %w", err)
		}
		byID[f.ID] = len(floors)
		floors = append(floors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate floors: %w", err)
	}
	if len(floors) == 0 {
		return floors, nil
	}

	qrows, err := s.db.Query(ctx, `
		SELECT q.id, q.floor_id, q.custom_id, q.type, q.area, q.bedrooms, q.bathrooms, q.price, q.status
		FROM project_quadrants q
		JOIN project_floors f ON f.id = q.floor_id
		WHERE f.project_id = $1
		ORDER BY q.custom_id ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quadrants: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var q models.Quadrant
		if err := qrows.Scan(&q.ID, &q.FloorID, &q.CustomID, &q.Type, &q.Area, &q.Bedrooms, &q.Bathrooms, &q.Price, &q.Status); err != nil {
			return nil, fmt.Errorf("failed to scan quadrant: %w", err)
		}
		if i, ok := byID[q.FloorID]; ok {
			floors[i].Quadrants = append(floors[i].Quadrants, q)
		}
	}
	if err := qrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quadrants: %w", err)
	}
	return floors, nil
}

// ListByOwner retrieves all projects owned by an agent, newest first,
// without floor layouts.
func (s *Service) ListByOwner(ctx context.Context, ownerAgentID uuid.UUID) ([]models.Project, error) {
	rows, err := s.db.Query(ctx,
		"SELECT"+projectColumns+" FROM projects WHERE owner_agent_id = $1 ORDER BY created_at DESC",
		ownerAgentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return out, nil
}

// Update applies a partial update to a project the actor owns. A non-nil
// Floors replaces the entire floor layout.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor models.Actor, req *UpdateProjectRequest) (*models.Project, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerAgentID != actor.ID {
		return nil, ErrProjectNotOwned
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.LocationState != nil {
		p.LocationState = *req.LocationState
	}
	if req.LocationCity != nil {
		p.LocationCity = *req.LocationCity
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

	if !p.PropertyType.Valid() {
		return nil, ErrInvalidType
	}
	if req.Floors != nil {
		if len(req.Floors) == 0 {
			return nil, ErrNoFloors
		}
		if err := validateFloors(req.Floors); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE projects SET
			name = $1, description = $2, property_type = $3,
			location_state = $4, location_city = $5, address = $6,
			latitude = $7, longitude = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING `+projectColumns,
		p.Name, p.Description, p.PropertyType, p.LocationState,
		p.LocationCity, p.Address, p.Latitude, p.Longitude, id,
	)
	updated, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if req.Floors != nil {
		if _, err := tx.Exec(ctx, "DELETE FROM project_floors WHERE project_id = $1", id); err != nil {
			return nil, fmt.Errorf("failed to replace floors: %w", err)
		}
		updated.Floors, err = insertFloors(ctx, tx, id, req.Floors)
		if err != nil {
			return nil, err
		}
	} else {
		updated.Floors = p.Floors
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, actor.ID)
	}
	return updated, nil
}
