package nav

import (
	"testing"

	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/protocol"
)

func openFiveByFive() []string {
	return []string{
		".....",
		".....",
		".....",
		".....",
		".....",
	}
}

func TestPlan_CoordinateGoal(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{2, 2}, []string{
		".....",
		".....",
		".....",
		"...#.",
		".....",
	})

	res := s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{2, 2},
		Goal:   Goal{Kind: GoalCoord, Coord: Vec2i{4, 4}},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	if !movesEqual(res.Moves, []Dir{DirRight, DirRight, DirDown, DirDown}) {
		t.Fatalf("moves = %v", dirNames(res.Moves))
	}
	if res.Waypoints != nil {
		t.Fatalf("single-area plan exposed waypoints: %+v", res.Waypoints)
	}
}

func TestPlan_BatchTruncation(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive())

	res := s.Plan(PathRequest{
		AreaID:        "town",
		Start:         Vec2i{0, 0},
		Goal:          Goal{Kind: GoalCoord, Coord: Vec2i{4, 4}},
		MaxBatchSteps: 3,
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	if len(res.Moves) != 3 {
		t.Fatalf("batch = %d moves, want 3", len(res.Moves))
	}
}

func TestPlan_AdvancePopsAndDetectsDivergence(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive())

	res := s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalCoord, Coord: Vec2i{3, 0}},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}

	pos := Vec2i{0, 0}
	move, status := s.Advance(GlobalPos{AreaID: "town", Pos: pos})
	if status != protocol.StatusOK {
		t.Fatalf("first advance = %s", status)
	}
	pos = step(pos, move)

	move, status = s.Advance(GlobalPos{AreaID: "town", Pos: pos})
	if status != protocol.StatusOK {
		t.Fatalf("second advance = %s", status)
	}

	// The caller got blocked: report the stale position instead of the
	// expected one.
	if _, status = s.Advance(GlobalPos{AreaID: "town", Pos: pos}); status != protocol.StatusReplanRequired {
		t.Fatalf("divergent advance = %s, want %s", status, protocol.StatusReplanRequired)
	}
	// Plan is gone; further advances keep demanding a replan.
	if _, status = s.Advance(GlobalPos{AreaID: "town", Pos: pos}); status != protocol.StatusReplanRequired {
		t.Fatalf("advance after discard = %s", status)
	}
}

func TestPlan_AdvanceExhaustsBatch(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive())

	res := s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalCoord, Coord: Vec2i{2, 0}},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	pos := Vec2i{0, 0}
	for i := 0; i < len(res.Moves); i++ {
		move, status := s.Advance(GlobalPos{AreaID: "town", Pos: pos})
		if status != protocol.StatusOK {
			t.Fatalf("advance %d = %s", i, status)
		}
		pos = step(pos, move)
	}
	if _, status := s.Advance(GlobalPos{AreaID: "town", Pos: pos}); status != protocol.StatusReplanRequired {
		t.Fatalf("post-batch advance = %s, want %s", status, protocol.StatusReplanRequired)
	}
}

func TestPlan_CrossAreaWaypoints(t *testing.T) {
	s := newTestSession()
	tenByTen := make([]string, 10)
	for i := range tenByTen {
		tenByTen[i] = ".........."
	}
	ingestRows(t, s, "A", Vec2i{0, 0}, Vec2i{0, 0}, tenByTen, Portal{
		ID:       "a_to_b",
		FromArea: "A", From: Vec2i{9, 9},
		ToArea: "B", To: Vec2i{0, 0},
		Kind: PortalWarp,
	})
	ingestRows(t, s, "B", Vec2i{0, 0}, Vec2i{0, 0}, tenByTen)

	res := s.Plan(PathRequest{
		AreaID: "A",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalCoord, AreaID: "B", Coord: Vec2i{5, 5}},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	if len(res.Waypoints) != 2 {
		t.Fatalf("waypoints = %d, want 2", len(res.Waypoints))
	}
	if res.Waypoints[0].AreaID != "A" || res.Waypoints[0].Coord != (Vec2i{9, 9}) {
		t.Fatalf("waypoint 0 = %+v", res.Waypoints[0])
	}
	if res.Waypoints[1].AreaID != "B" || res.Waypoints[1].Coord != (Vec2i{5, 5}) {
		t.Fatalf("waypoint 1 = %+v", res.Waypoints[1])
	}
	// The returned batch walks the first leg toward the portal.
	pos := Vec2i{0, 0}
	for _, m := range res.Moves {
		pos = step(pos, m)
	}
	if pos != (Vec2i{9, 9}) {
		t.Fatalf("first leg ends at %v, want the portal at (9,9)", pos)
	}
}

func TestPlan_CrossAreaNoRoute(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "A", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive())
	ingestRows(t, s, "B", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive())

	res := s.Plan(PathRequest{
		AreaID: "A",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalCoord, AreaID: "B", Coord: Vec2i{1, 1}},
	})
	if res.Status != protocol.StatusNoRoute {
		t.Fatalf("status = %s, want %s", res.Status, protocol.StatusNoRoute)
	}
}

func TestPlan_PortalGoal(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "A", Vec2i{0, 0}, Vec2i{0, 0}, openFiveByFive(), Portal{
		ID:       "exit",
		FromArea: "A", From: Vec2i{4, 0},
		ToArea: "B", To: Vec2i{0, 0},
		Kind: PortalWarp,
	})

	res := s.Plan(PathRequest{
		AreaID: "A",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalPortal, PortalID: "exit"},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	pos := Vec2i{0, 0}
	for _, m := range res.Moves {
		pos = step(pos, m)
	}
	if pos != (Vec2i{4, 0}) {
		t.Fatalf("path ends at %v, want the portal at (4,0)", pos)
	}

	res = s.Plan(PathRequest{
		AreaID: "A",
		Start:  Vec2i{0, 0},
		Goal:   Goal{Kind: GoalPortal, PortalID: "nonexistent"},
	})
	if res.Status != protocol.StatusNoRoute {
		t.Fatalf("unknown portal status = %s, want %s", res.Status, protocol.StatusNoRoute)
	}
}

func TestPlan_DirectionGoal(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{2, 2}, []string{
		".....",
		".....",
		"...#.",
		".....",
		".....",
	})

	// Rightward from (2,2): the straight line stops before the obstacle
	// at (3,2).
	res := s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{2, 2},
		Goal:   Goal{Kind: GoalDirection, Dir: DirRight},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	if len(res.Moves) != 0 {
		t.Fatalf("blocked direction produced moves %v", dirNames(res.Moves))
	}

	// Downward the line runs to the explored edge.
	res = s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{2, 2},
		Goal:   Goal{Kind: GoalDirection, Dir: DirDown},
	})
	if res.Status != protocol.StatusOK {
		t.Fatalf("status = %s", res.Status)
	}
	if !movesEqual(res.Moves, []Dir{DirDown, DirDown}) {
		t.Fatalf("moves = %v, want [DOWN DOWN]", dirNames(res.Moves))
	}
}

func TestPlan_FallsBackToLocalOnContradiction(t *testing.T) {
	s := newTestSession()
	ingestRows(t, s, "town", Vec2i{0, 0}, Vec2i{2, 1}, []string{
		".....",
		".....",
		".....",
	})

	// Poison the canvas: it now claims the player's tile is an
	// obstacle. The validator must reject it and the plan must come
	// from the window-bounded local search — observable because the
	// goal is outside the window and only the local planner says
	// PARTIAL.
	c, _ := s.store.Get("town")
	c.setTile(Vec2i{2, 1}, Tile{Class: terrain.ClassObstacle})

	res := s.Plan(PathRequest{
		AreaID: "town",
		Start:  Vec2i{2, 1},
		Goal:   Goal{Kind: GoalCoord, Coord: Vec2i{30, 1}},
	})
	if res.Status != protocol.StatusPartial {
		t.Fatalf("status = %s, want %s", res.Status, protocol.StatusPartial)
	}
	if !movesEqual(res.Moves, []Dir{DirRight}) {
		t.Fatalf("moves = %v, want [RIGHT]", dirNames(res.Moves))
	}
}

func TestPlan_BudgetPropagates(t *testing.T) {
	s := newTestSession()
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = "...................."
	}
	ingestRows(t, s, "big", Vec2i{0, 0}, Vec2i{0, 0}, rows)

	res := s.Plan(PathRequest{
		AreaID:     "big",
		Start:      Vec2i{0, 0},
		Goal:       Goal{Kind: GoalCoord, Coord: Vec2i{19, 19}},
		NodeBudget: 5,
	})
	if res.Status != protocol.StatusBudgetExceeded {
		t.Fatalf("status = %s, want %s", res.Status, protocol.StatusBudgetExceeded)
	}
	if _, status := s.Advance(GlobalPos{AreaID: "big", Pos: Vec2i{0, 0}}); status != protocol.StatusReplanRequired {
		t.Fatalf("advance after failed plan = %s, want %s", status, protocol.StatusReplanRequired)
	}
}
