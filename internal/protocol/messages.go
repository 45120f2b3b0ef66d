package protocol

// HelloMsg opens a session. One session per connection; sessions never
// share canvas state.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	LegendDigest    string `json:"legend_digest"`
}

// ObsMsg is one bounded local-window snapshot from the perception side.
// Codes is row-major, Width*Height raw terrain codes. Legend optionally
// overrides the server catalog for this observation; keys are decimal
// raw codes, values class tokens ("NORMAL", "LEDGE_DOWN", ...).
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	Tick            uint64 `json:"tick"`

	AreaID string `json:"area_id"`
	Player [2]int `json:"player"` // area-local position
	Origin [2]int `json:"origin"` // window top-left, area-local
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Codes  []int  `json:"codes"`

	Legend  map[string]string `json:"legend,omitempty"`
	Portals []PortalObs       `json:"portals,omitempty"`
}

// PortalObs announces a discovered inter-area transition.
type PortalObs struct {
	ID       string  `json:"id"`
	FromArea string  `json:"from_area"`
	From     [2]int  `json:"from"`
	ToArea   string  `json:"to_area"`
	To       [2]int  `json:"to"`
	Kind     string  `json:"kind"` // "WARP", "DROP", "OPEN_EDGE"
	Cost     float64 `json:"cost,omitempty"`
}

// PlanMsg requests a move sequence. Exactly one of Coord, Dir, PortalID
// describes the goal.
type PlanMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	RequestID       string `json:"request_id,omitempty"`

	AreaID string `json:"area_id"`
	Start  [2]int `json:"start"` // area-local

	GoalArea string  `json:"goal_area,omitempty"`
	Coord    *[2]int `json:"coord,omitempty"`
	Dir      string  `json:"dir,omitempty"`
	PortalID string  `json:"portal_id,omitempty"`

	AvoidHazard   bool `json:"avoid_hazard,omitempty"`
	MaxBatchSteps int  `json:"max_batch_steps,omitempty"`
	NodeBudget    int  `json:"node_budget,omitempty"`
}

type PlanResultMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`

	Status string   `json:"status"`
	Moves  []string `json:"moves,omitempty"`
	Cost   float64  `json:"cost,omitempty"`

	// Waypoints is populated for cross-area goals: one (area, coord)
	// per leg, last entry being the final goal.
	Waypoints []WaypointMsg `json:"waypoints,omitempty"`
}

type WaypointMsg struct {
	AreaID string `json:"area_id"`
	Coord  [2]int `json:"coord"`
}

// AdvanceMsg reports the executed position and asks for the next cached
// move.
type AdvanceMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`

	AreaID string `json:"area_id"`
	Pos    [2]int `json:"pos"`
}

type AdvanceResultMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`

	Status string `json:"status"`
	Move   string `json:"move,omitempty"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
