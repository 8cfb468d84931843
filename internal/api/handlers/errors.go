package handlers

import (
	"errors"
	"net/http"

	"energy-lsmc/internal/api/models"
	"energy-lsmc/internal/model"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondModelError maps the model sentinel errors onto HTTP statuses.
func respondModelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrConfiguration):
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error())
	case errors.Is(err, model.ErrShapeMismatch):
		respondError(c, http.StatusBadRequest, "SHAPE_MISMATCH", err.Error())
	case errors.Is(err, model.ErrNumericInstability):
		respondError(c, http.StatusUnprocessableEntity, "NUMERIC_INSTABILITY", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "VALUATION_ERROR", err.Error())
	}
}
