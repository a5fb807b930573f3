package server

import (
	"errors"
	"io"
	"net/http"

	apierrors "github.com/boring-ventures/ubigroup-sub000/internal/errors"
	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

// rejectRequest carries the optional message shown to the owning agent.
type rejectRequest struct {
	RejectionMessage *string `json:"rejectionMessage,omitempty"`
}

// handleAdminListings serves the moderation queue: every listing of every
// agent, filterable by the same query parameters as the public search,
// including status.
func (s *APIServer) handleAdminListings(c *gin.Context) {
	spec, err := listing.ParseFilterSpec(c.Request.URL.Query())
	if err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	snapshot, err := s.listingService.SnapshotAll(c.Request.Context())
	if err != nil {
		respondError(c, apierrors.ErrStoreFailureError)
		return
	}

	results := listing.Query(snapshot, spec)
	c.JSON(http.StatusOK, gin.H{"listings": results, "total": len(results)})
}

// handleAdminStats returns count-by-status over all listings.
func (s *APIServer) handleAdminStats(c *gin.Context) {
	snapshot, err := s.listingService.SnapshotAll(c.Request.Context())
	if err != nil {
		respondError(c, apierrors.ErrStoreFailureError)
		return
	}

	stats := listing.Stats(snapshot)
	c.JSON(http.StatusOK, gin.H{
		"pending":  stats.Pending,
		"approved": stats.Approved,
		"rejected": stats.Rejected,
		"total":    stats.Total(),
	})
}

func (s *APIServer) handleApproveProperty(c *gin.Context) {
	s.approveListing(c, models.ListingKindProperty)
}

func (s *APIServer) handleRejectProperty(c *gin.Context) {
	s.rejectListing(c, models.ListingKindProperty)
}

func (s *APIServer) handleAdminDeleteProperty(c *gin.Context) {
	s.deleteListing(c, models.ListingKindProperty)
}

func (s *APIServer) handleApproveProject(c *gin.Context) {
	s.approveListing(c, models.ListingKindProject)
}

func (s *APIServer) handleRejectProject(c *gin.Context) {
	s.rejectListing(c, models.ListingKindProject)
}

func (s *APIServer) handleAdminDeleteProject(c *gin.Context) {
	s.deleteListing(c, models.ListingKindProject)
}

func (s *APIServer) approveListing(c *gin.Context, kind models.ListingKind) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	id, apiErr := parseIDParam(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	decision, err := s.moderationService.Approve(c.Request.Context(), kind, id, actor)
	if err != nil {
		respondError(c, mapModerationError(err))
		return
	}

	c.JSON(http.StatusOK, decision)
}

func (s *APIServer) rejectListing(c *gin.Context, kind models.ListingKind) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	id, apiErr := parseIDParam(c)
	if apiErr != nil {
		respondError(c, apiErr)
		return
	}

	// The body is optional; an empty one reads as io.EOF.
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	decision, err := s.moderationService.Reject(c.Request.Context(), kind, id, actor, req.RejectionMessage)
	if err != nil {
		respondError(c, mapModerationError(err))
		return
	}

	c.JSON(http.StatusOK, decision)
}
