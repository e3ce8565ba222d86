package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/menubebe/backend/internal/logging"
	"github.com/pageza/menubebe/backend/internal/service"
)

// MealsHandler handles meal suggestion requests
type MealsHandler struct {
	meals service.MealSuggester
}

// NewMealsHandler creates a new MealsHandler instance
func NewMealsHandler(meals service.MealSuggester) *MealsHandler {
	return &MealsHandler{meals: meals}
}

// RegisterRoutes registers the meal routes
func (h *MealsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate-meals", h.GenerateMeals)
}

// GenerateMeals relays the menu text to the language model and returns its
// suggestions. The credential check happens before the body is looked at,
// so an unreadable body is simply treated as missing menu text. An oversized
// body is reported as 413 once the credential check has passed.
func (h *MealsHandler) GenerateMeals(c *gin.Context) {
	ctx := c.Request.Context()

	var req GenerateMealsRequest
	var tooLarge *http.MaxBytesError
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.FromContext(ctx, nil).WithError(err).Debug("Unreadable generate-meals body")
		errors.As(err, &tooLarge)
		req.MenuText = ""
	}

	suggestions, err := h.meals.Suggest(ctx, req.MenuText)
	if err != nil {
		e := service.AsError(err)
		status, message := e.Kind.StatusCode(), e.Message
		if tooLarge != nil && e.Kind == service.KindValidation {
			status, message = http.StatusRequestEntityTooLarge, MsgBodyTooLarge
		}
		c.JSON(status, ErrorResponse{
			Error:     message,
			RequestID: logging.RequestID(ctx),
		})
		return
	}

	c.JSON(http.StatusOK, GenerateMealsResponse{Suggestions: suggestions})
}
