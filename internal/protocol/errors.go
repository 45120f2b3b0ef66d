package protocol

// Planner/executor statuses. These travel on the wire in PLAN_RESULT and
// ADVANCE_RESULT; none of them is fatal to the session.
const (
	StatusOK             = "OK"
	StatusPartial        = "PARTIAL"
	StatusNoPath         = "NO_PATH"
	StatusNoRoute        = "NO_ROUTE"
	StatusBudgetExceeded = "BUDGET_EXCEEDED"
	StatusReplanRequired = "REPLAN_REQUIRED"
)

// Ingest/validation codes. These never surface as remote failures; they
// are logged and the pipeline degrades (bad observations are skipped,
// incompatible canvases fall back to the local planner).
const (
	ErrInvalidObservation     = "INVALID_OBSERVATION"
	ErrCoordinateIncompatible = "COORDINATE_INCOMPATIBLE"
)

// Transport-level validation.
const (
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
)

var knownCodes = map[string]struct{}{
	StatusOK:                  {},
	StatusPartial:             {},
	StatusNoPath:              {},
	StatusNoRoute:             {},
	StatusBudgetExceeded:      {},
	StatusReplanRequired:      {},
	ErrInvalidObservation:     {},
	ErrCoordinateIncompatible: {},
	ErrProtoBadRequest:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
