package nav

import (
	"math"
	"testing"

	"wayfinder.ai/internal/protocol"
)

func canvasFromRows(t *testing.T, rows []string) *AreaCanvas {
	t.Helper()
	s := newTestSession()
	ingestRows(t, s, "test", Vec2i{0, 0}, Vec2i{0, 0}, rows)
	c, _ := s.store.Get("test")
	return c
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFindPath_AroundObstacle(t *testing.T) {
	c := canvasFromRows(t, []string{
		".....",
		".....",
		".....",
		"...#.",
		".....",
	})

	moves, cost, status := findPath(c, Vec2i{2, 2}, Vec2i{4, 4}, searchOptions{})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}
	want := []Dir{DirRight, DirRight, DirDown, DirDown}
	if !movesEqual(moves, want) {
		t.Fatalf("moves = %v, want %v", dirNames(moves), dirNames(want))
	}
	if !almostEqual(cost, 4.0) {
		t.Fatalf("cost = %v, want 4.0", cost)
	}
}

func TestFindPath_LedgeOneWay(t *testing.T) {
	rows := []string{
		".....",
		".....",
		".....",
		"##v##",
		".....",
	}
	c := canvasFromRows(t, rows)

	// Southbound crosses the ledge.
	moves, cost, status := findPath(c, Vec2i{2, 2}, Vec2i{2, 4}, searchOptions{})
	if status != protocol.StatusOK {
		t.Fatalf("southbound status = %s", status)
	}
	if !movesEqual(moves, []Dir{DirDown, DirDown}) {
		t.Fatalf("southbound moves = %v", dirNames(moves))
	}
	if !almostEqual(cost, 2.2) {
		t.Fatalf("southbound cost = %v, want 2.2", cost)
	}

	// Northbound must not: the reverse edge does not exist and the
	// obstacle row leaves no detour.
	if _, _, status := findPath(c, Vec2i{2, 4}, Vec2i{2, 2}, searchOptions{}); status != protocol.StatusNoPath {
		t.Fatalf("northbound status = %s, want %s", status, protocol.StatusNoPath)
	}
}

func TestFindPath_HazardAvoidance(t *testing.T) {
	c := canvasFromRows(t, []string{
		".~~.",
		"....",
	})

	// Avoiding hazards, the planner detours under the grass strip.
	moves, cost, status := findPath(c, Vec2i{0, 0}, Vec2i{3, 0}, searchOptions{AvoidHazard: true})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}
	pos := Vec2i{0, 0}
	for _, m := range moves {
		pos = step(pos, m)
		if tile, _ := c.TileAt(pos); tile.Class.String() == "GRASS" {
			t.Fatalf("hazard-avoiding path enters grass at %v (moves %v)", pos, dirNames(moves))
		}
	}
	if !almostEqual(cost, 5.0) {
		t.Fatalf("avoiding cost = %v, want 5.0", cost)
	}

	// Without avoidance grass costs the same as normal ground and the
	// straight line wins.
	moves, cost, status = findPath(c, Vec2i{0, 0}, Vec2i{3, 0}, searchOptions{})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}
	if len(moves) != 3 || !almostEqual(cost, 3.0) {
		t.Fatalf("direct path = %v cost %v, want 3 moves cost 3.0", dirNames(moves), cost)
	}
}

func TestFindPath_GrassWhenStrictlyNecessary(t *testing.T) {
	// Grass is the only way through; avoidance must still take it.
	c := canvasFromRows(t, []string{
		"#~#",
		"...",
	})
	moves, _, status := findPath(c, Vec2i{1, 1}, Vec2i{1, 0}, searchOptions{AvoidHazard: true})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}
	if !movesEqual(moves, []Dir{DirUp}) {
		t.Fatalf("moves = %v, want [UP]", dirNames(moves))
	}
}

func TestFindPath_UnknownTilesImpassable(t *testing.T) {
	s := newTestSession()
	// Two observed islands with an unexplored strip between them.
	ingestRows(t, s, "test", Vec2i{0, 0}, Vec2i{0, 0}, []string{
		"..",
		"..",
	})
	ingestRows(t, s, "test", Vec2i{5, 0}, Vec2i{5, 0}, []string{
		"..",
		"..",
	})
	c, _ := s.store.Get("test")

	if _, _, status := findPath(c, Vec2i{0, 0}, Vec2i{5, 0}, searchOptions{}); status != protocol.StatusNoPath {
		t.Fatalf("status = %s, want %s (unknown territory must not be planned through)", status, protocol.StatusNoPath)
	}
}

func TestFindPath_BudgetExceeded(t *testing.T) {
	rows := make([]string, 20)
	for i := range rows {
		rows[i] = "...................."
	}
	c := canvasFromRows(t, rows)

	_, _, status := findPath(c, Vec2i{0, 0}, Vec2i{19, 19}, searchOptions{NodeBudget: 5})
	if status != protocol.StatusBudgetExceeded {
		t.Fatalf("status = %s, want %s", status, protocol.StatusBudgetExceeded)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	rows := []string{
		"........",
		".#.#....",
		".#.#.##.",
		"...#....",
		".#####..",
		"........",
	}
	c := canvasFromRows(t, rows)

	first, cost1, status := findPath(c, Vec2i{0, 0}, Vec2i{7, 5}, searchOptions{})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}
	for i := 0; i < 10; i++ {
		again, cost2, status := findPath(c, Vec2i{0, 0}, Vec2i{7, 5}, searchOptions{})
		if status != protocol.StatusOK || !movesEqual(first, again) || !almostEqual(cost1, cost2) {
			t.Fatalf("run %d diverged: %v vs %v", i, dirNames(first), dirNames(again))
		}
	}
}

func TestFindPath_ChainConnectedNoRevisits(t *testing.T) {
	c := canvasFromRows(t, []string{
		"......",
		".####.",
		".#..#.",
		".#.##.",
		".#....",
		"......",
	})
	moves, cost, status := findPath(c, Vec2i{2, 2}, Vec2i{5, 5}, searchOptions{})
	if status != protocol.StatusOK {
		t.Fatalf("status = %s", status)
	}

	visited := map[Vec2i]bool{{2, 2}: true}
	pos := Vec2i{2, 2}
	var sum float64
	for _, m := range moves {
		next := step(pos, m)
		if manhattan(pos, next) != 1 {
			t.Fatalf("non-adjacent step %v -> %v", pos, next)
		}
		if visited[next] {
			t.Fatalf("revisits %v", next)
		}
		visited[next] = true
		tile, known := c.TileAt(next)
		if !known {
			t.Fatalf("path crosses unknown tile %v", next)
		}
		sum += 1.0 // all-normal map
		_ = tile
		pos = next
	}
	if pos != (Vec2i{5, 5}) {
		t.Fatalf("path ends at %v, want (5,5)", pos)
	}
	if !almostEqual(cost, sum) {
		t.Fatalf("reported cost %v != summed cost %v", cost, sum)
	}
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	c := canvasFromRows(t, []string{"..."})
	moves, cost, status := findPath(c, Vec2i{1, 0}, Vec2i{1, 0}, searchOptions{})
	if status != protocol.StatusOK || len(moves) != 0 || cost != 0 {
		t.Fatalf("trivial path = %v cost %v status %s", moves, cost, status)
	}
}
