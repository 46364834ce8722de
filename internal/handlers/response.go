package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrdesk/hrdesk-backend/internal/platform/apierr"
	"github.com/hrdesk/hrdesk-backend/internal/services"
)

// respondError maps domain errors onto the {code, message} envelope.
// Callers never see raw provider payloads; the format-error message is
// already generic by construction.
func respondError(c *gin.Context, err error) {
	var taxonomyErr *services.TaxonomyNotFoundError
	var collectionErr *services.CollectionNotFoundError

	switch {
	case errors.As(err, &taxonomyErr):
		writeError(c, apierr.New(http.StatusNotFound, "taxonomy_not_found", err))
	case errors.As(err, &collectionErr):
		writeError(c, apierr.New(http.StatusNotFound, "collection_not_found", err))
	default:
		writeError(c, apierr.New(http.StatusInternalServerError, "classification_error", err))
	}
}

func writeError(c *gin.Context, apiErr *apierr.Error) {
	c.JSON(apiErr.Status, apiErr.Envelope())
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apierr.Envelope{Code: "bad_request", Message: message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, apierr.Envelope{Code: "not_found", Message: message})
}
