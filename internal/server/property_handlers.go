package server

import (
	"errors"
	"net/http"

	apierrors "github.com/boring-ventures/ubigroup-sub000/internal/errors"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/property"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// handleCreateProperty creates a property owned by the acting agent.
// New properties enter the moderation queue as PENDING.
func (s *APIServer) handleCreateProperty(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	var req property.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	p, err := s.propertyService.Create(c.Request.Context(), actor, nil, &req)
	if err != nil {
		respondError(c, mapPropertyError(err))
		return
	}

	c.JSON(http.StatusCreated, p)
}

// handleListProperties lists the acting agent's own properties.
func (s *APIServer) handleListProperties(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	props, err := s.propertyService.ListByOwner(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, apierrors.ErrStoreFailureError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": props, "total": len(props)})
}

// handleGetProperty returns one of the acting agent's properties.
func (s *APIServer) handleGetProperty(c *gin.Context) {
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

	p, err := s.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, mapPropertyError(err))
		return
	}
	if p.OwnerAgentID != actor.ID {
		respondError(c, apierrors.ErrListingNotOwnedError)
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleUpdateProperty applies a partial update to an owned property.
func (s *APIServer) handleUpdateProperty(c *gin.Context) {
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

	var req property.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	p, err := s.propertyService.Update(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, mapPropertyError(err))
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleDeleteProperty permanently deletes an owned property.
func (s *APIServer) handleDeleteProperty(c *gin.Context) {
	s.deleteListing(c, models.ListingKindProperty)
}

// handleResendProperty moves a rejected property back to PENDING.
func (s *APIServer) handleResendProperty(c *gin.Context) {
	s.resendListing(c, models.ListingKindProperty)
}

func (s *APIServer) deleteListing(c *gin.Context, kind models.ListingKind) {
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

	if err := s.moderationService.PermanentDelete(c.Request.Context(), kind, id, actor); err != nil {
		respondError(c, mapModerationError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

func (s *APIServer) resendListing(c *gin.Context, kind models.ListingKind) {
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

	decision, err := s.moderationService.Resend(c.Request.Context(), kind, id, actor)
	if err != nil {
		respondError(c, mapModerationError(err))
		return
	}

	c.JSON(http.StatusOK, decision)
}

func parseIDParam(c *gin.Context) (uuid.UUID, *apierrors.APIError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apierrors.NewInvalidRequestError("Invalid listing ID")
	}
	return id, nil
}

func mapPropertyError(err error) *apierrors.APIError {
	switch {
	case errors.Is(err, property.ErrPropertyNotFound):
		return apierrors.ErrListingNotFoundError
	case errors.Is(err, property.ErrPropertyNotOwned):
		return apierrors.ErrListingNotOwnedError
	case errors.Is(err, property.ErrInvalidPrice),
		errors.Is(err, property.ErrInvalidCurrency),
		errors.Is(err, property.ErrInvalidType),
		errors.Is(err, property.ErrInvalidRooms),
		errors.Is(err, property.ErrInvalidArea):
		return apierrors.NewValidationError(err.Error())
	default:
		return apierrors.ErrStoreFailureError
	}
}
