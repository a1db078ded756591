package recommendations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"potplanner-backend/internal/shared/server/respond"
)

// Handler exposes recommendation endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
	rg.POST("/recommendations/alternative", h.alternative)
}

func (h *Handler) recommend(c *gin.Context) {
	var input Input
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}
	if msg := validateInput(input); msg != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
		return
	}

	result, err := h.Svc.Recommend(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoRecommendation):
			respond.Error(c, http.StatusUnprocessableEntity, "recommendation_failed", err.Error(), nil)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve recommendation", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"veggieIds":  []string{result.VeggieIDs[0], result.VeggieIDs[1]},
		"mushroomId": result.MushroomID,
		"source":     result.Source,
		"reason":     result.Reason,
	})
}

func (h *Handler) alternative(c *gin.Context) {
	var input AlternativeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}
	if !IsKnownPotBase(input.PotBase) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown soup base", nil)
		return
	}
	if strings.TrimSpace(input.ProteinID) == "" || strings.TrimSpace(input.IngredientID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "proteinId and ingredientId are required", nil)
		return
	}

	suggestion, err := h.Svc.AlternativeIngredient(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to look up alternative", nil)
		return
	}
	if suggestion == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "no alternative available", nil)
		return
	}

	respond.JSON(c, http.StatusOK, suggestion)
}

func validateInput(input Input) string {
	if !IsKnownPotBase(input.PotBase) {
		return "unknown soup base"
	}
	if strings.TrimSpace(input.ProteinID) == "" {
		return "proteinId is required"
	}
	if len(input.CandidateVeggieIDs) == 0 {
		return "candidateVeggieIds is required"
	}
	return ""
}
