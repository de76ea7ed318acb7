package dto

type CreateRouteRequest struct {
	Name              string `json:"name"`
	ShipID            int64  `json:"ship_id"`
	CampaignID        int64  `json:"campaign_id"`
	JumpRange         int    `json:"jump_range"`
	AvoidHostileZones bool   `json:"avoid_hostile_zones"`
	RequireStarport   bool   `json:"require_starport"`
}

type WaypointResponse struct {
	ID           int64  `json:"id"`
	Position     int    `json:"position"`
	Sector       string `json:"sector"`
	Hex          string `json:"hex"`
	WorldName    string `json:"world_name"`
	UWP          string `json:"uwp"`
	TradeCodes   string `json:"trade_codes"`
	JumpDistance *int   `json:"jump_distance"`
	IsCurrent    bool   `json:"is_current"`
}

type RouteResponse struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	ShipID            int64              `json:"ship_id"`
	CampaignID        int64              `json:"campaign_id,omitempty"`
	JumpRange         int                `json:"jump_range"`
	AvoidHostileZones bool               `json:"avoid_hostile_zones"`
	RequireStarport   bool               `json:"require_starport"`
	Start             *Location          `json:"start"`
	Destination       *Location          `json:"destination"`
	TotalParsecs      int                `json:"total_parsecs"`
	FuelEstimate      int                `json:"fuel_estimate"`
	HasInvalidJumps   bool               `json:"has_invalid_jumps"`
	IsActive          bool               `json:"is_active"`
	Waypoints         []WaypointResponse `json:"waypoints"`
}

type OptimizeResponse struct {
	Route     RouteResponse `json:"route"`
	Plan      *PlanResponse `json:"plan"`
	OffCourse bool          `json:"off_course"`
}

type CampaignResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Day  *int   `json:"day"`
	Year *int   `json:"year"`
}

type TravelResponse struct {
	Current  WaypointResponse  `json:"current"`
	Campaign *CampaignResponse `json:"campaign"`
}
