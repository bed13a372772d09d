package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type PlanBuilder interface {
	BuildPlans(ctx context.Context, req domain.PlannerRequest, skipAIProviders bool) (*domain.PlannerResult, error)
}

type PlanHandler struct {
	Planner PlanBuilder
}

// Plan builds the three tiered trip plans for a request.
// ?offline=true skips the AI capabilities and the POI providers; geocoding
// and routing still run.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, errTrailingData) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	offline := false
	if v := r.URL.Query().Get("offline"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "offline must be a boolean")
			return
		}
		offline = b
	}

	res, err := h.Planner.BuildPlans(r.Context(), req.ToDomain(), offline)
	if err != nil {
		h.writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(res))
}

func (h *PlanHandler) writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *domain.InputError
	var infeasible *domain.InfeasibleError

	switch {
	case errors.As(err, &inputErr):
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{Error: inputErr.Error(), Field: inputErr.Field})
	case errors.As(err, &infeasible):
		writeError(w, r, http.StatusUnprocessableEntity, infeasible.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "planning timed out")
	default:
		obs.Logf(r.Context(), "op=plans err=%q", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
