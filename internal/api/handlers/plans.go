package handlers

import (
	"astrogation-service/internal/api/dto"
	"astrogation-service/internal/domain"
	"astrogation-service/internal/services"
	"net/http"
	"strings"
)

// maxPlanDestinations bounds ad hoc planning requests.
const maxPlanDestinations = 32

type PlanHandler struct {
	Optimizer *services.Optimizer
}

// Plan orders a set of destinations from a start system without touching any
// stored route.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Start.Sector) == "" || strings.TrimSpace(req.Start.Hex) == "" {
		writeError(w, r, http.StatusBadRequest, "start sector and hex are required")
		return
	}
	if len(req.Destinations) > maxPlanDestinations {
		writeError(w, r, http.StatusBadRequest, "too many destinations")
		return
	}

	dests := make([]domain.Location, 0, len(req.Destinations))
	for _, d := range req.Destinations {
		dests = append(dests, domain.Location{Sector: strings.TrimSpace(d.Sector), Hex: strings.TrimSpace(d.Hex)})
	}
	start := domain.Location{Sector: strings.TrimSpace(req.Start.Sector), Hex: strings.TrimSpace(req.Start.Hex)}
	policy := domain.RoutingPolicy{
		AvoidHostileZones: req.AvoidHostileZones,
		RequireStarport:   req.RequireStarport,
	}

	plan, err := h.Optimizer.Optimize(r.Context(), start, dests, req.JumpRange, policy)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}
