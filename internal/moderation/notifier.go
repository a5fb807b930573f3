package moderation

import (
	"context"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/logging"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/google/uuid"
)

// StatusChangeEvent describes a completed moderation transition. An external
// notifier (email, push) consumes these; the workflow only emits them.
type StatusChangeEvent struct {
	Kind             models.ListingKind   `json:"kind"`
	ListingID        uuid.UUID            `json:"listing_id"`
	OwnerAgentID     uuid.UUID            `json:"owner_agent_id"`
	OldStatus        models.ListingStatus `json:"old_status"`
	NewStatus        models.ListingStatus `json:"new_status"`
	RejectionMessage *string              `json:"rejection_message,omitempty"`
	ActorID          uuid.UUID            `json:"actor_id"`
	OccurredAt       time.Time            `json:"occurred_at"`
}

// Notifier consumes status-change events.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, ev StatusChangeEvent)
}

// LogNotifier logs events through the global logger. It is the default
// wiring; delivery to agents happens outside this service.
type LogNotifier struct{}

// NotifyStatusChange implements Notifier.
func (LogNotifier) NotifyStatusChange(_ context.Context, ev StatusChangeEvent) {
	logger := logging.NewLogger("moderation")
	event := logger.Info().
		Str("kind", string(ev.Kind)).
		Str("listing_id", ev.ListingID.String()).
		Str("owner_agent_id", ev.OwnerAgentID.String()).
		Str("old_status", string(ev.OldStatus)).
		Str("new_status", string(ev.NewStatus)).
		Str("new_status_label", models.StatusLabel(ev.NewStatus)).
		Str("actor_id", ev.ActorID.String())
	if ev.RejectionMessage != nil {
		event = event.Str("rejection_message", *ev.RejectionMessage)
	}
	event.Msg("Listing status changed")
}
