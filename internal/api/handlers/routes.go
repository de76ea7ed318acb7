package handlers

import (
	"astrogation-service/internal/api/dto"
	"astrogation-service/internal/domain"
	"astrogation-service/internal/ports"
	"astrogation-service/internal/services"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RouteHandler exposes route editing and navigation actions.
// Every edit loads the route, applies the change in memory and stores it once.
type RouteHandler struct {
	Repo ports.RouteRepository
	Sync *services.RouteSynchronizer
	Nav  *services.Navigator
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ShipID <= 0 {
		writeError(w, r, http.StatusBadRequest, "ship_id is required")
		return
	}
	if req.JumpRange < 0 {
		writeError(w, r, http.StatusBadRequest, "jump_range must not be negative")
		return
	}

	route := &domain.Route{
		Name:       strings.TrimSpace(req.Name),
		ShipID:     req.ShipID,
		CampaignID: req.CampaignID,
		JumpRange:  req.JumpRange,
		Policy: domain.RoutingPolicy{
			AvoidHostileZones: req.AvoidHostileZones,
			RequireStarport:   req.RequireStarport,
		},
	}
	if err := h.Repo.CreateRoute(r.Context(), route); err != nil {
		writeServiceError(w, r, "create route", err)
		return
	}

	created, err := h.Repo.GetRoute(r.Context(), route.ID)
	if err != nil {
		writeServiceError(w, r, "create route", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRouteResponse(created))
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	route, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

func (h *RouteHandler) SetStart(w http.ResponseWriter, r *http.Request) {
	var req dto.Location
	if !decodeJSON(w, r, &req) {
		return
	}
	route, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.Sync.SetStart(r.Context(), route, strings.TrimSpace(req.Sector), strings.TrimSpace(req.Hex)); err != nil {
		writeServiceError(w, r, "set start", err)
		return
	}
	h.save(w, r, route, http.StatusOK)
}

func (h *RouteHandler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	var req dto.Location
	if !decodeJSON(w, r, &req) {
		return
	}
	route, ok := h.load(w, r)
	if !ok {
		return
	}

	if _, err := h.Sync.AddWaypoint(r.Context(), route, strings.TrimSpace(req.Sector), strings.TrimSpace(req.Hex)); err != nil {
		writeServiceError(w, r, "add waypoint", err)
		return
	}
	h.save(w, r, route, http.StatusCreated)
}

func (h *RouteHandler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	position, ok := pathInt(w, r, "position")
	if !ok {
		return
	}
	route, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.Sync.RemoveWaypoint(r.Context(), route, int(position)); err != nil {
		writeServiceError(w, r, "remove waypoint", err)
		return
	}
	h.save(w, r, route, http.StatusOK)
}

// Optimize reorders the route's destinations into the shortest itinerary.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	route, ok := h.load(w, r)
	if !ok {
		return
	}

	res, err := h.Sync.Recalculate(r.Context(), route)
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}
	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{
		Route:     toRouteResponse(route),
		Plan:      toPlanResponse(res.Plan),
		OffCourse: res.OffCourse,
	})
}

func (h *RouteHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	route, err := h.Nav.Activate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "activate route", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

func (h *RouteHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	route, err := h.Nav.Close(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "close route", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

// Travel jumps to the next (or previous) waypoint. The direction comes from
// the "direction" query parameter and defaults to forward.
func (h *RouteHandler) Travel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return
	}

	dir := domain.Forward
	if raw := r.URL.Query().Get("direction"); raw != "" {
		parsed, err := domain.ParseDirection(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		dir = parsed
	}

	wp, campaign, err := h.Nav.Travel(r.Context(), id, dir)
	if err != nil {
		writeServiceError(w, r, "travel", err)
		return
	}

	res := dto.TravelResponse{Current: toWaypointResponse(wp)}
	if campaign != nil {
		res.Campaign = &dto.CampaignResponse{
			ID:   campaign.ID,
			Name: campaign.Name,
			Day:  campaign.Day,
			Year: campaign.Year,
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Route, bool) {
	id, ok := pathInt(w, r, "id")
	if !ok {
		return nil, false
	}

	route, err := h.Repo.GetRoute(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "load route "+mux.Vars(r)["id"], err)
		return nil, false
	}
	return route, true
}

func (h *RouteHandler) save(w http.ResponseWriter, r *http.Request, route *domain.Route, status int) {
	if err := h.Repo.SaveRoute(r.Context(), route); err != nil {
		writeServiceError(w, r, "save route", err)
		return
	}
	writeJSON(w, r, status, toRouteResponse(route))
}
