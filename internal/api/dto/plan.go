package dto

type Location struct {
	Sector string `json:"sector"`
	Hex    string `json:"hex"`
}

type PlanRequest struct {
	Start             Location   `json:"start"`
	Destinations      []Location `json:"destinations"`
	JumpRange         int        `json:"jump_range"`
	AvoidHostileZones bool       `json:"avoid_hostile_zones"`
	RequireStarport   bool       `json:"require_starport"`
}

type PlanSystemResponse struct {
	Sector string `json:"sector"`
	Hex    string `json:"hex"`
	Name   string `json:"name"`
	UWP    string `json:"uwp"`
	Zone   string `json:"zone"`
}

type PlanResponse struct {
	Order      []Location           `json:"order"`
	Path       []PlanSystemResponse `json:"path"`
	TotalJumps int                  `json:"total_jumps"`
	Exact      bool                 `json:"exact"`
}
