package server

import (
	"errors"
	"net/http"

	apierrors "github.com/boring-ventures/ubigroup-sub000/internal/errors"
	"github.com/boring-ventures/ubigroup-sub000/internal/middleware"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/boring-ventures/ubigroup-sub000/internal/project"
	"github.com/gin-gonic/gin"
)

// handleCreateProject creates a project with its floors and quadrants.
// New projects enter the moderation queue as PENDING.
func (s *APIServer) handleCreateProject(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	var req project.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	p, err := s.projectService.Create(c.Request.Context(), actor, nil, &req)
	if err != nil {
		respondError(c, mapProjectError(err))
		return
	}

	c.JSON(http.StatusCreated, p)
}

// handleListProjects lists the acting agent's own projects.
func (s *APIServer) handleListProjects(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		respondError(c, apierrors.ErrInvalidCredentialsError)
		return
	}

	projects, err := s.projectService.ListByOwner(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, apierrors.ErrStoreFailureError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// handleGetProject returns one of the acting agent's projects with its
// full floor layout.
func (s *APIServer) handleGetProject(c *gin.Context) {
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

	p, err := s.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, mapProjectError(err))
		return
	}
	if p.OwnerAgentID != actor.ID {
		respondError(c, apierrors.ErrListingNotOwnedError)
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleUpdateProject applies a partial update to an owned project.
func (s *APIServer) handleUpdateProject(c *gin.Context) {
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

	var req project.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.NewValidationError(err.Error()))
		return
	}

	p, err := s.projectService.Update(c.Request.Context(), id, actor, &req)
	if err != nil {
		respondError(c, mapProjectError(err))
		return
	}

	c.JSON(http.StatusOK, p)
}

// handleDeleteProject permanently deletes an owned project and its floors.
func (s *APIServer) handleDeleteProject(c *gin.Context) {
	s.deleteListing(c, models.ListingKindProject)
}

// handleResendProject moves a rejected project back to PENDING.
func (s *APIServer) handleResendProject(c *gin.Context) {
	s.resendListing(c, models.ListingKindProject)
}

func mapProjectError(err error) *apierrors.APIError {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return apierrors.ErrListingNotFoundError
	case errors.Is(err, project.ErrProjectNotOwned):
		return apierrors.ErrListingNotOwnedError
	case errors.Is(err, project.ErrInvalidType),
		errors.Is(err, project.ErrNoFloors),
		errors.Is(err, project.ErrDuplicateCustomID),
		errors.Is(err, project.ErrInvalidQuadrant):
		return apierrors.NewValidationError(err.Error())
	default:
		return apierrors.ErrStoreFailureError
	}
}
