package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/cache"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Cache is the subset of the cache used by the query service. Declared here
// so tests can substitute a fake.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Service loads listing snapshots (properties and projects combined) and
// serves filtered views and dashboard counts over them. Filter evaluation is
// pure and happens in memory; the snapshot fetch is the only I/O.
type Service struct {
	db    *pgxpool.Pool
	cache Cache
}

// NewService creates a listing query service.
func NewService(db *pgxpool.Pool, c Cache) *Service {
	return &Service{db: db, cache: c}
}

const propertyListingColumns = `
	id, owner_agent_id, agency_id, title, description, status, rejection_message,
	price, currency, bedrooms, bathrooms, square_meters, property_type,
	transaction_type, location_state, location_city, address, created_at, updated_at`

const projectListingColumns = `
	id, owner_agent_id, agency_id, name, description, status, rejection_message,
	property_type, location_state, location_city, address, created_at, updated_at`

// SnapshotByOwner returns every listing owned by agentID, both kinds.
func (s *Service) SnapshotByOwner(ctx context.Context, agentID uuid.UUID) ([]models.Listing, error) {
	return s.cached(ctx, cache.AgentListingsKey(agentID), func() ([]models.Listing, error) {
		return s.snapshot(ctx, "WHERE owner_agent_id = $1", agentID)
	})
}

// SnapshotAll returns every listing regardless of status (moderation view).
func (s *Service) SnapshotAll(ctx context.Context) ([]models.Listing, error) {
	return s.cached(ctx, cache.AdminListingsKey(), func() ([]models.Listing, error) {
		return s.snapshot(ctx, "")
	})
}

// SnapshotPublic returns approved listings only (marketplace view).
func (s *Service) SnapshotPublic(ctx context.Context) ([]models.Listing, error) {
	return s.cached(ctx, cache.PublicListingsKey(), func() ([]models.Listing, error) {
		return s.snapshot(ctx, "WHERE status = $1", models.ListingStatusApproved)
	})
}

// cached wraps a snapshot fetch in a cache-aside lookup. A nil cache means
// every call goes to the database.
func (s *Service) cached(ctx context.Context, key string, fetch func() ([]models.Listing, error)) ([]models.Listing, error) {
	if s.cache != nil {
		var hit []models.Listing
		if ok, _ := s.cache.Get(ctx, key, &hit); ok {
			return hit, nil
		}
	}

	items, err := fetch()
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, items)
	}
	return items, nil
}

// Query applies a filter spec to a snapshot and returns the matches sorted
// newest first.
func Query(snapshot []models.Listing, spec FilterSpec) []models.Listing {
	return Apply(snapshot, spec)
}

// Stats computes count-by-status over the unfiltered snapshot. Dashboard
// cards must reflect the full ownership-scoped collection, never the
// currently filtered subset.
func Stats(snapshot []models.Listing) StatusCounts {
	return CountByStatus(snapshot)
}

func (s *Service) snapshot(ctx context.Context, where string, args ...any) ([]models.Listing, error) {
	start := time.Now()
	defer func() { monitoring.RecordDBQuery("listing_snapshot", time.Since(start)) }()

	var items []models.Listing

	rows, err := s.db.Query(ctx, "SELECT "+propertyListingColumns+" FROM properties "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Property
		err := rows.Scan(
			&p.ID, &p.OwnerAgentID, &p.AgencyID, &p.Title, &p.Description,
			&p.Status, &p.RejectionMessage, &p.Price, &p.Currency,
			&p.Bedrooms, &p.Bathrooms, &p.SquareMeters, &p.PropertyType,
			&p.TransactionType, &p.LocationState, &p.LocationCity,
			&p.Address, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		items = append(items, p.ToListing())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	prows, err := s.db.Query(ctx, "SELECT "+projectListingColumns+" FROM projects "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer prows.Close()
	for prows.Next() {
		var p models.Project
		err := prows.Scan(
			&p.ID, &p.OwnerAgentID, &p.AgencyID, &p.Name, &p.Description,
			&p.Status, &p.RejectionMessage, &p.PropertyType,
			&p.LocationState, &p.LocationCity, &p.Address,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		items = append(items, p.ToListing())
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return items, nil
}
