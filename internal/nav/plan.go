package nav

import "wayfinder.ai/internal/protocol"

// Goal kinds.
type GoalKind uint8

const (
	GoalCoord GoalKind = iota
	GoalDirection
	GoalPortal
)

// Goal is what the objective layer asks to reach: a coordinate (possibly
// in another area), a direction, or a named portal.
type Goal struct {
	Kind     GoalKind
	AreaID   string // coordinate goals only; empty means the start area
	Coord    Vec2i
	Dir      Dir
	PortalID string
}

type PathRequest struct {
	AreaID string
	Start  Vec2i // area-local
	Goal   Goal

	AvoidHazard   bool
	MaxBatchSteps int
	NodeBudget    int
}

// PathResult is the executor's answer: a batch of move tokens plus a
// status, never an error. Waypoints is populated for cross-area goals.
type PathResult struct {
	Status    string
	Moves     []Dir
	Cost      float64
	Waypoints []Waypoint
}

// activePlan is the cached plan Advance pops from. expected[i] is the
// position the agent must hold before executing moves[i].
type activePlan struct {
	areaID   string
	moves    []Dir
	expected []Vec2i
	cursor   int
}

// Plan resolves a path request. Single-area requests go straight to the
// planners; cross-area requests are first decomposed into waypoints by
// the route graph and the first leg is planned here. The canvas check
// runs on every request: an untrusted canvas transparently falls back to
// the bounded local search instead of failing the request.
func (s *Session) Plan(req PathRequest) PathResult {
	s.stats.Plans++
	s.plan = nil

	goalArea, goalCoord, status := s.resolveGoal(req)
	if status != protocol.StatusOK {
		return PathResult{Status: status}
	}

	waypoints, status := s.routes.Route(req.AreaID, goalArea, goalCoord)
	if status != protocol.StatusOK {
		return PathResult{Status: status}
	}

	// First leg target, always inside the start area.
	target := waypoints[0].Coord

	var (
		moves []Dir
		cost  float64
	)
	canvas, _ := s.store.Get(req.AreaID)
	if err := validateCanvas(canvas, req.Start); err != nil {
		s.logf("%v: falling back to local search", err)
		moves, status = localSearch(s.windows[req.AreaID], req.Start, target, s.cfg.LocalSearchDepth)
		for range moves {
			cost++ // local search is unweighted
		}
	} else {
		budget := req.NodeBudget
		if budget <= 0 {
			budget = s.cfg.NodeBudget
		}
		moves, cost, status = findPath(canvas, req.Start, target, searchOptions{
			AvoidHazard: req.AvoidHazard,
			NodeBudget:  budget,
		})
	}
	if status != protocol.StatusOK && status != protocol.StatusPartial {
		return PathResult{Status: status, Waypoints: multiLeg(waypoints)}
	}

	moves = s.truncate(moves, req.MaxBatchSteps)

	expected := make([]Vec2i, len(moves)+1)
	expected[0] = req.Start
	for i, m := range moves {
		expected[i+1] = step(expected[i], m)
	}
	s.plan = &activePlan{
		areaID:   req.AreaID,
		moves:    moves,
		expected: expected,
	}

	return PathResult{
		Status:    status,
		Moves:     moves,
		Cost:      cost,
		Waypoints: multiLeg(waypoints),
	}
}

// multiLeg hides the waypoint list for plain single-area requests.
func multiLeg(w []Waypoint) []Waypoint {
	if len(w) <= 1 {
		return nil
	}
	return w
}

func (s *Session) truncate(moves []Dir, reqMax int) []Dir {
	max := s.cfg.MaxBatchSteps
	if reqMax > 0 && (max <= 0 || reqMax < max) {
		max = reqMax
	}
	if max > 0 && len(moves) > max {
		return moves[:max]
	}
	return moves
}

// Advance pops the next move from the cached plan. If the reported
// position diverges from what the plan expected (blocked, displaced, or
// area changed), the plan is discarded and REPLAN_REQUIRED is returned
// rather than continuing with a now-invalid sequence.
func (s *Session) Advance(actual GlobalPos) (Dir, string) {
	p := s.plan
	if p == nil || p.cursor >= len(p.moves) {
		s.plan = nil
		return 0, protocol.StatusReplanRequired
	}
	if actual.AreaID != p.areaID || actual.Pos != p.expected[p.cursor] {
		s.plan = nil
		s.stats.Replans++
		return 0, protocol.StatusReplanRequired
	}
	m := p.moves[p.cursor]
	p.cursor++
	if p.cursor >= len(p.moves) {
		s.plan = nil
	}
	return m, protocol.StatusOK
}

func (s *Session) resolveGoal(req PathRequest) (area string, coord Vec2i, status string) {
	switch req.Goal.Kind {
	case GoalCoord:
		area = req.Goal.AreaID
		if area == "" {
			area = req.AreaID
		}
		return area, req.Goal.Coord, protocol.StatusOK

	case GoalPortal:
		p, ok := s.routes.Portal(req.Goal.PortalID)
		if !ok {
			return "", Vec2i{}, protocol.StatusNoRoute
		}
		return p.FromArea, p.From, protocol.StatusOK

	case GoalDirection:
		return req.AreaID, s.resolveDirectionGoal(req.AreaID, req.Start, req.Goal.Dir), protocol.StatusOK
	}
	return "", Vec2i{}, protocol.StatusNoPath
}

// resolveDirectionGoal targets the farthest known tile reachable in a
// straight line from the start along d. With no canvas it targets a
// point beyond the window so the local fallback emits best-effort steps.
func (s *Session) resolveDirectionGoal(areaID string, start Vec2i, d Dir) Vec2i {
	c, ok := s.store.Get(areaID)
	if !ok {
		p := start
		for i := 0; i < s.cfg.LocalSearchDepth; i++ {
			p = step(p, d)
		}
		return p
	}
	p := start
	for {
		np := step(p, d)
		t, known := c.TileAt(np)
		if !known || !t.enterable(d) {
			return p
		}
		p = np
	}
}
