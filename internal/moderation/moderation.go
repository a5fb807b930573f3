package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/logging"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service errors
var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrNotAdmin          = errors.New("action requires super-admin role")
	ErrNotOwner          = errors.New("listing not owned by actor")
	ErrInvalidTransition = errors.New("listing status does not allow this transition")
	ErrUnknownAction     = errors.New("unknown moderation action")
)

// InvalidatingCache drops the cached collections a mutation affects.
type InvalidatingCache interface {
	InvalidateListingScopes(ctx context.Context, agentID uuid.UUID) error
}

// Service enforces the moderation state machine over the entity store.
// Transitions run as status-guarded single-row updates, so when two admins
// race on the same listing the loser gets ErrInvalidTransition instead of
// silently overwriting the winner.
type Service struct {
	db       *pgxpool.Pool
	cache    InvalidatingCache
	notifier Notifier
}

// NewService creates a moderation service.
func NewService(db *pgxpool.Pool, cache InvalidatingCache, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{db: db, cache: cache, notifier: notifier}
}

// Decision is the outcome of a successful transition.
type Decision struct {
	ListingID        uuid.UUID            `json:"listing_id"`
	Kind             models.ListingKind   `json:"kind"`
	OldStatus        models.ListingStatus `json:"old_status"`
	NewStatus        models.ListingStatus `json:"new_status"`
	RejectionMessage *string              `json:"rejection_message,omitempty"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// Approve moves a listing to APPROVED and clears any rejection message.
// Admin only; allowed from PENDING and REJECTED.
func (s *Service) Approve(ctx context.Context, kind models.ListingKind, id uuid.UUID, actor models.Actor) (*Decision, error) {
	return s.transition(ctx, kind, id, actor, ActionApprove, nil)
}

// Reject moves a listing to REJECTED, recording an optional message for the
// owning agent. Admin only; allowed from PENDING and APPROVED.
func (s *Service) Reject(ctx context.Context, kind models.ListingKind, id uuid.UUID, actor models.Actor, message *string) (*Decision, error) {
	return s.transition(ctx, kind, id, actor, ActionReject, message)
}

// Resend moves a rejected listing back to PENDING and clears the rejection
// message. Only the owning agent may resend.
func (s *Service) Resend(ctx context.Context, kind models.ListingKind, id uuid.UUID, actor models.Actor) (*Decision, error) {
	return s.transition(ctx, kind, id, actor, ActionResend, nil)
}

// PermanentDelete removes a listing and all owned sub-entities (floors and
// quadrants cascade for projects). No status precondition; irreversible.
func (s *Service) PermanentDelete(ctx context.Context, kind models.ListingKind, id uuid.UUID, actor models.Actor) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	owner, _, err := s.lookup(ctx, table, id)
	if err != nil {
		return err
	}

	if err := AuthorizeDelete(actor, owner); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	monitoring.RecordListingDeleted(string(kind))
	logging.LogListingDeleted(string(kind), id.String(), actor.ID.String())
	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, owner)
	}
	return nil
}

func (s *Service) transition(ctx context.Context, kind models.ListingKind, id uuid.UUID, actor models.Actor, action Action, message *string) (*Decision, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	owner, current, err := s.lookup(ctx, table, id)
	if err != nil {
		return nil, err
	}

	if err := Authorize(action, actor, owner); err != nil {
		return nil, err
	}
	if !Allowed(action, current) {
		return nil, fmt.Errorf("%w: cannot %s a %s listing", ErrInvalidTransition, action, current)
	}

	// Rejection message only survives while the listing is REJECTED.
	var rejectionMessage *string
	if action == ActionReject {
		rejectionMessage = message
	}

	from := make([]string, 0, len(AllowedFrom(action)))
	for _, st := range AllowedFrom(action) {
		from = append(from, string(st))
	}

	dec := &Decision{ListingID: id, Kind: kind, OldStatus: current}
	err = s.db.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s SET status = $1, rejection_message = $2, updated_at = NOW()
		WHERE id = $3 AND status = ANY($4)
		RETURNING status, rejection_message, updated_at
	`, table), Target(action), rejectionMessage, id, from).Scan(
		&dec.NewStatus, &dec.RejectionMessage, &dec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a race: the status changed between lookup and update.
			return nil, fmt.Errorf("%w: listing status changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	monitoring.RecordModerationDecision(string(kind), string(action))
	s.notifier.NotifyStatusChange(ctx, StatusChangeEvent{
		Kind:             kind,
		ListingID:        id,
		OwnerAgentID:     owner,
		OldStatus:        current,
		NewStatus:        dec.NewStatus,
		RejectionMessage: dec.RejectionMessage,
		ActorID:          actor.ID,
		OccurredAt:       dec.UpdatedAt,
	})
	if s.cache != nil {
		_ = s.cache.InvalidateListingScopes(ctx, owner)
	}
	return dec, nil
}

func (s *Service) lookup(ctx context.Context, table string, id uuid.UUID) (uuid.UUID, models.ListingStatus, error) {
	var owner uuid.UUID
	var status models.ListingStatus
	err := s.db.QueryRow(ctx,
		fmt.Sprintf("SELECT owner_agent_id, status FROM %s WHERE id = $1", table), id,
	).Scan(&owner, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, "", ErrListingNotFound
		}
		return uuid.Nil, "", fmt.Errorf("failed to load listing: %w", err)
	}
	return owner, status, nil
}

func tableFor(kind models.ListingKind) (string, error) {
	switch kind {
	case models.ListingKindProperty:
		return "properties", nil
	case models.ListingKindProject:
		return "projects", nil
	}
	return "", fmt.Errorf("unknown listing kind %q", kind)
}
