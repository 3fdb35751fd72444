package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type studentRoster interface {
	Students(ctx context.Context, parentID string) ([]models.Student, error)
}

// StudentHandler exposes the parent's student roster for the booking form.
type StudentHandler struct {
	catalog studentRoster
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(catalog studentRoster) *StudentHandler {
	return &StudentHandler{catalog: catalog}
}

// List godoc
// @Summary List the caller's students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	students, err := h.catalog.Students(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}
