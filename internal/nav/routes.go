package nav

import (
	"sort"

	"wayfinder.ai/internal/protocol"
)

// Portal kinds. Warps and open edges can be walked back through, drops
// cannot.
const (
	PortalWarp     = "WARP"
	PortalDrop     = "DROP"
	PortalOpenEdge = "OPEN_EDGE"
)

// Portal is a discovered transition from a coordinate in one area to a
// coordinate in another.
type Portal struct {
	ID       string
	FromArea string
	From     Vec2i
	ToArea   string
	To       Vec2i
	Kind     string
	Cost     float64
}

type routeEdge struct {
	portal Portal
	// reversed marks the synthetic back-edge of a bidirectional portal.
	reversed bool
}

func (e routeEdge) fromArea() string {
	if e.reversed {
		return e.portal.ToArea
	}
	return e.portal.FromArea
}

func (e routeEdge) toArea() string {
	if e.reversed {
		return e.portal.FromArea
	}
	return e.portal.ToArea
}

// entry is the coordinate to walk to in the edge's source area.
func (e routeEdge) entry() Vec2i {
	if e.reversed {
		return e.portal.To
	}
	return e.portal.From
}

// RouteGraph composes multi-area journeys from discovered portals.
// Nodes are areas, edges portals; built incrementally by ingest.
type RouteGraph struct {
	portals map[string]Portal
	edges   map[string][]routeEdge // keyed by source area
}

func NewRouteGraph() *RouteGraph {
	return &RouteGraph{
		portals: make(map[string]Portal, 16),
		edges:   make(map[string][]routeEdge, 8),
	}
}

// AddPortal registers or re-registers a portal (last observation wins).
// Warp and open-edge portals contribute a back-edge as well; drops are
// strictly one-way.
func (g *RouteGraph) AddPortal(p Portal) {
	if p.Cost <= 0 {
		p.Cost = 1.0
	}
	if old, ok := g.portals[p.ID]; ok {
		g.removeEdges(old)
	}
	g.portals[p.ID] = p

	g.edges[p.FromArea] = append(g.edges[p.FromArea], routeEdge{portal: p})
	if p.Kind != PortalDrop {
		g.edges[p.ToArea] = append(g.edges[p.ToArea], routeEdge{portal: p, reversed: true})
	}
	// Deterministic edge order regardless of discovery order.
	for _, area := range []string{p.FromArea, p.ToArea} {
		es := g.edges[area]
		sort.Slice(es, func(i, j int) bool {
			if es[i].portal.ID != es[j].portal.ID {
				return es[i].portal.ID < es[j].portal.ID
			}
			return !es[i].reversed && es[j].reversed
		})
	}
}

func (g *RouteGraph) removeEdges(p Portal) {
	for _, area := range []string{p.FromArea, p.ToArea} {
		es := g.edges[area][:0]
		for _, e := range g.edges[area] {
			if e.portal.ID != p.ID {
				es = append(es, e)
			}
		}
		g.edges[area] = es
	}
}

// Portal looks a portal up by its stable ID.
func (g *RouteGraph) Portal(id string) (Portal, bool) {
	p, ok := g.portals[id]
	return p, ok
}

// Portals returns every known portal, sorted by ID.
func (g *RouteGraph) Portals() []Portal {
	out := make([]Portal, 0, len(g.portals))
	for _, p := range g.portals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Waypoint is one per-area leg of a composed route: walk to Coord inside
// AreaID, then (for all but the last leg) cross the named portal.
type Waypoint struct {
	AreaID   string
	Coord    Vec2i
	PortalID string // empty on the final leg
	// Arrive is where the crossing deposits the agent in the next area.
	Arrive Vec2i
}

// Route runs Dijkstra over the area graph (portal costs may differ) and
// returns the ordered waypoint list ending at (goalArea, goalCoord).
// Same-area requests come back as the single final waypoint. Tie-breaks
// are lexicographic on area ID so routes are reproducible.
func (g *RouteGraph) Route(fromArea string, goalArea string, goalCoord Vec2i) ([]Waypoint, string) {
	if fromArea == goalArea {
		return []Waypoint{{AreaID: goalArea, Coord: goalCoord}}, protocol.StatusOK
	}

	dist := map[string]float64{fromArea: 0}
	prev := map[string]routeEdge{}
	done := map[string]bool{}

	for {
		// Smallest tentative distance, area ID breaking ties.
		cur := ""
		for area, d := range dist {
			if done[area] {
				continue
			}
			if cur == "" || d < dist[cur] || (d == dist[cur] && area < cur) {
				cur = area
			}
		}
		if cur == "" {
			return nil, protocol.StatusNoRoute
		}
		if cur == goalArea {
			break
		}
		done[cur] = true

		for _, e := range g.edges[cur] {
			next := e.toArea()
			if done[next] {
				continue
			}
			nd := dist[cur] + e.portal.Cost
			if old, seen := dist[next]; !seen || nd < old {
				dist[next] = nd
				prev[next] = e
			}
		}
	}

	// Walk the predecessor chain back from the goal area.
	var legs []routeEdge
	for area := goalArea; area != fromArea; {
		e, ok := prev[area]
		if !ok {
			return nil, protocol.StatusNoRoute
		}
		legs = append(legs, e)
		area = e.fromArea()
	}

	waypoints := make([]Waypoint, 0, len(legs)+1)
	for i := len(legs) - 1; i >= 0; i-- {
		e := legs[i]
		arrive := e.portal.To
		if e.reversed {
			arrive = e.portal.From
		}
		waypoints = append(waypoints, Waypoint{
			AreaID:   e.fromArea(),
			Coord:    e.entry(),
			PortalID: e.portal.ID,
			Arrive:   arrive,
		})
	}
	waypoints = append(waypoints, Waypoint{AreaID: goalArea, Coord: goalCoord})
	return waypoints, protocol.StatusOK
}
