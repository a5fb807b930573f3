package server

import (
	"net/http"

	apierrors "github.com/boring-ventures/ubigroup-sub000/internal/errors"
	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// handlePublicListings serves the public marketplace search. Only approved
// listings are visible; all filter query parameters apply on top.
func (s *APIServer) handlePublicListings(c *gin.Context) {
	spec, err := listing.ParseFilterSpec(c.Request.URL.Query())
	if err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}
	// The public snapshot carries approved listings only, so a status
	// filter can narrow but never widen visibility.

	snapshot, err := s.listingService.SnapshotPublic(c.Request.Context())
	if err != nil {
		respondError(c, apierrors.ErrStoreFailureError)
		return
	}

	results := listing.Query(snapshot, spec)
	c.JSON(http.StatusOK, gin.H{"listings": results, "total": len(results)})
}

// handleDashboardStats returns count-by-status over the caller's scope:
// an agent sees their own listings, a super admin sees everything.
func (s *APIServer) handleDashboardStats(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	var stats listing.StatusCounts
	if actor.IsAdmin() {
		all, err := s.listingService.SnapshotAll(c.Request.Context())
		if err != nil {
			respondError(c, apierrors.ErrStoreFailureError)
			return
		}
		stats = listing.Stats(all)
	} else {
		own, err := s.listingService.SnapshotByOwner(c.Request.Context(), actor.ID)
		if err != nil {
			respondError(c, apierrors.ErrStoreFailureError)
			return
		}
		stats = listing.Stats(own)
	}

	c.JSON(http.StatusOK, gin.H{
		"pending":  stats.Pending,
		"approved": stats.Approved,
		"rejected": stats.Rejected,
		"total":    stats.Total(),
	})
}
