package moderation

import (
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/google/uuid"
)

// Action is a moderation transition on a listing.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionResend  Action = "resend"
)

// allowedFrom lists the statuses each action may start from. Approve also
// accepts REJECTED so an admin can reverse a rejection without a resend
// round-trip; reject accepts APPROVED so an approved listing can be pulled.
var allowedFrom = map[Action][]models.ListingStatus{
	ActionApprove: {models.ListingStatusPending, models.ListingStatusRejected},
	ActionReject:  {models.ListingStatusPending, models.ListingStatusApproved},
	ActionResend:  {models.ListingStatusRejected},
}

// target maps each action to the status it produces.
var target = map[Action]models.ListingStatus{
	ActionApprove: models.ListingStatusApproved,
	ActionReject:  models.ListingStatusRejected,
	ActionResend:  models.ListingStatusPending,
}

// Allowed reports whether action may be applied to a listing currently in
// status from.
func Allowed(action Action, from models.ListingStatus) bool {
	for _, s := range allowedFrom[action] {
		if s == from {
			return true
		}
	}
	return false
}

// AllowedFrom returns the statuses action may start from.
func AllowedFrom(action Action) []models.ListingStatus {
	return allowedFrom[action]
}

// Target returns the status action produces.
func Target(action Action) models.ListingStatus {
	return target[action]
}

// Authorize checks that the actor may perform action on a listing owned by
// ownerAgentID. Approve and reject are admin-only; resend belongs to the
// owning agent.
func Authorize(action Action, actor models.Actor, ownerAgentID uuid.UUID) error {
	switch action {
	case ActionApprove, ActionReject:
		if !actor.IsAdmin() {
			return ErrNotAdmin
		}
	case ActionResend:
		if actor.Role != models.UserRoleAgent || actor.ID != ownerAgentID {
			return ErrNotOwner
		}
	default:
		return ErrUnknownAction
	}
	return nil
}

// AuthorizeDelete checks that the actor may permanently delete a listing.
// Admins may delete anything; an agent may delete their own listings.
func AuthorizeDelete(actor models.Actor, ownerAgentID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == models.UserRoleAgent && actor.ID == ownerAgentID {
		return nil
	}
	return ErrNotOwner
}
