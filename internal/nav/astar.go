package nav

import (
	"container/heap"

	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/protocol"
)

// searchOptions bound and shape a single grid search.
type searchOptions struct {
	AvoidHazard bool
	// NodeBudget caps node expansions. Exceeding it aborts the search
	// with BUDGET_EXCEEDED instead of running unbounded; this is the
	// only "timeout" the planners know.
	NodeBudget int
}

const DefaultNodeBudget = 20000

// findPath runs a weighted 4-directional A* over one canvas, area-local
// frame. Never-observed tiles are impassable: the planner refuses to
// route through territory it has no terrain data for, even when that
// would shorten the path.
//
// Returns the move sequence, total accumulated cost and a status in
// {OK, NO_PATH, BUDGET_EXCEEDED}.
func findPath(c *AreaCanvas, start, goal Vec2i, opt searchOptions) ([]Dir, float64, string) {
	budget := opt.NodeBudget
	if budget <= 0 {
		budget = DefaultNodeBudget
	}
	if start == goal {
		return nil, 0, protocol.StatusOK
	}
	if t, ok := c.TileAt(goal); !ok || !terrain.Traversable(t.Class) {
		return nil, 0, protocol.StatusNoPath
	}

	type cameFrom struct {
		prev Vec2i
		dir  Dir
	}

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, frontierNode{pos: start, f: float64(manhattan(start, goal))})

	gScore := map[Vec2i]float64{start: 0}
	from := make(map[Vec2i]cameFrom, 256)
	closed := make(map[Vec2i]bool, 256)

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(frontierNode)
		if closed[cur.pos] {
			continue
		}
		if cur.pos == goal {
			moves := make([]Dir, 0, 32)
			for p := goal; p != start; {
				cf := from[p]
				moves = append(moves, cf.dir)
				p = cf.prev
			}
			for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
				moves[i], moves[j] = moves[j], moves[i]
			}
			return moves, gScore[goal], protocol.StatusOK
		}
		closed[cur.pos] = true

		expanded++
		if expanded > budget {
			return nil, 0, protocol.StatusBudgetExceeded
		}

		// Fixed direction order keeps equal-cost searches reproducible.
		for _, d := range dirOrder {
			np := step(cur.pos, d)
			if closed[np] {
				continue
			}
			t, known := c.TileAt(np)
			if !known || !t.enterable(d) {
				continue
			}
			ng := gScore[cur.pos] + terrain.Cost(t.Class, opt.AvoidHazard)
			if old, seen := gScore[np]; seen && ng >= old {
				continue
			}
			gScore[np] = ng
			from[np] = cameFrom{prev: cur.pos, dir: d}
			heap.Push(open, frontierNode{pos: np, f: ng + float64(manhattan(np, goal))})
		}
	}
	return nil, 0, protocol.StatusNoPath
}

type frontierNode struct {
	pos Vec2i
	f   float64
	seq int
}

// frontier is a min-heap on f, ties broken by insertion sequence so the
// fixed push order above fully determines pop order.
type frontier struct {
	nodes []frontierNode
	next  int
}

func (q *frontier) Len() int { return len(q.nodes) }

func (q *frontier) Less(i, j int) bool {
	if q.nodes[i].f != q.nodes[j].f {
		return q.nodes[i].f < q.nodes[j].f
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *frontier) Swap(i, j int) { q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i] }

func (q *frontier) Push(x any) {
	n := x.(frontierNode)
	n.seq = q.next
	q.next++
	q.nodes = append(q.nodes, n)
}

func (q *frontier) Pop() any {
	old := q.nodes
	n := old[len(old)-1]
	q.nodes = old[:len(old)-1]
	return n
}
