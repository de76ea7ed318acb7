package handlers

import (
	"astrogation-service/internal/api/dto"
	"astrogation-service/internal/domain"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors to status codes. Anything unrecognised
// is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidJumpRange):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRouteNotFound),
		errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrWaypointNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStateConflict),
		errors.Is(err, domain.ErrNavigationOffline),
		errors.Is(err, domain.ErrSyncFailure),
		errors.Is(err, domain.ErrOutOfRange):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSystemNotFound):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNoPathFound):
		writeError(w, r, http.StatusUnprocessableEntity, "no path found: relax the jump range or zone policy")
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		writeError(w, r, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return v, true
}

func toWaypointResponse(wp *domain.Waypoint) dto.WaypointResponse {
	return dto.WaypointResponse{
		ID:           wp.ID,
		Position:     wp.Position,
		Sector:       wp.Sector,
		Hex:          wp.Hex,
		WorldName:    wp.WorldName,
		UWP:          wp.UWP,
		TradeCodes:   wp.TradeCodes,
		JumpDistance: wp.JumpDistance,
		IsCurrent:    wp.IsCurrent,
	}
}

func toRouteResponse(route *domain.Route) dto.RouteResponse {
	res := dto.RouteResponse{
		ID:                route.ID,
		Name:              route.Name,
		ShipID:            route.ShipID,
		CampaignID:        route.CampaignID,
		JumpRange:         route.ResolvedJumpRange(),
		AvoidHostileZones: route.Policy.AvoidHostileZones,
		RequireStarport:   route.Policy.RequireStarport,
		TotalParsecs:      route.TotalParsecs(),
		FuelEstimate:      route.FuelEstimate,
		HasInvalidJumps:   route.HasInvalidJumps(),
		IsActive:          route.IsActive,
		Waypoints:         make([]dto.WaypointResponse, 0, len(route.Waypoints)),
	}
	if route.StartHex != "" {
		res.Start = &dto.Location{Sector: route.StartSector, Hex: route.StartHex}
	}
	if route.DestinationHex != "" {
		res.Destination = &dto.Location{Sector: route.DestinationSector, Hex: route.DestinationHex}
	}
	for i := range route.Waypoints {
		res.Waypoints = append(res.Waypoints, toWaypointResponse(&route.Waypoints[i]))
	}
	return res
}

func toPlanResponse(plan *domain.RoutePlan) *dto.PlanResponse {
	if plan == nil {
		return nil
	}

	res := &dto.PlanResponse{
		Order:      make([]dto.Location, 0, len(plan.Order)),
		Path:       make([]dto.PlanSystemResponse, 0, len(plan.Path)),
		TotalJumps: plan.TotalJumps,
		Exact:      plan.Exact,
	}
	for _, loc := range plan.Order {
		res.Order = append(res.Order, dto.Location{Sector: loc.Sector, Hex: loc.Hex})
	}
	for _, s := range plan.Path {
		res.Path = append(res.Path, dto.PlanSystemResponse{
			Sector: s.Sector,
			Hex:    s.Hex,
			Name:   s.Name,
			UWP:    s.UWP,
			Zone:   string(s.Zone),
		})
	}
	return res
}
