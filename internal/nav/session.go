package nav

import (
	"log"

	"wayfinder.ai/internal/nav/terrain"
)

// Config carries the session knobs that matter to planning; zero values
// fall back to defaults so tests can construct sessions tersely.
type Config struct {
	OffsetStride     int
	NodeBudget       int
	LocalSearchDepth int
	MaxBatchSteps    int
}

const DefaultLocalSearchDepth = 32

// Stats counts what happened to observations and plans over the session
// lifetime.
type Stats struct {
	Ingested uint64
	Deduped  uint64
	Rejected uint64
	Plans    uint64
	Replans  uint64
}

// Session is one agent's navigation state: the canvas store, the route
// graph, the last seen window per area and the cached plan. Sessions are
// independent; nothing in this package is shared between them.
//
// The session is single-caller by contract: one ingest and at most one
// plan/advance per tick, no internal locking.
type Session struct {
	cfg    Config
	legend *terrain.Catalog
	log    *log.Logger

	store  *MapStore
	routes *RouteGraph

	windows    map[string]*localWindow
	lastDigest string

	cur    GlobalPos
	hasPos bool

	plan *activePlan

	stats Stats
}

func NewSession(cfg Config, legend *terrain.Catalog, logger *log.Logger) *Session {
	if cfg.NodeBudget <= 0 {
		cfg.NodeBudget = DefaultNodeBudget
	}
	if cfg.LocalSearchDepth <= 0 {
		cfg.LocalSearchDepth = DefaultLocalSearchDepth
	}
	return &Session{
		cfg:     cfg,
		legend:  legend,
		log:     logger,
		store:   NewMapStore(cfg.OffsetStride),
		routes:  NewRouteGraph(),
		windows: make(map[string]*localWindow, 8),
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// Store exposes the canvas registry for read-only inspection (stats,
// persistence).
func (s *Session) Store() *MapStore { return s.store }

// Routes exposes the inter-area route graph.
func (s *Session) Routes() *RouteGraph { return s.routes }

// Position returns the player's last observed position.
func (s *Session) Position() (GlobalPos, bool) { return s.cur, s.hasPos }

func (s *Session) Stats() Stats { return s.stats }
