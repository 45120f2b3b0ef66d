package nav

import "wayfinder.ai/internal/protocol"

// localWindow is the most recent bounded observation for an area, the
// only thing the fallback planner is allowed to look at.
type localWindow struct {
	origin Vec2i
	width  int
	height int
	tiles  []Tile // row-major
}

func (w *localWindow) contains(p Vec2i) bool {
	return p.X >= w.origin.X && p.X < w.origin.X+w.width &&
		p.Y >= w.origin.Y && p.Y < w.origin.Y+w.height
}

func (w *localWindow) tileAt(p Vec2i) (Tile, bool) {
	if !w.contains(p) {
		return Tile{}, false
	}
	i := (p.Y-w.origin.Y)*w.width + (p.X - w.origin.X)
	return w.tiles[i], true
}

// localSearch is the fallback planner: an unweighted BFS confined to the
// visible window, obstacles excluded and ledges one-directional exactly
// as in the global search, but with terrain cost ignored.
//
// If the goal is inside the window and reachable, the full move chain
// comes back with status OK. Otherwise the search degrades to the single
// visible step that best reduces remaining Manhattan distance (PARTIAL),
// so the caller can keep stepping as new territory scrolls into view.
// Tie-break mirrors the global planner: (distance, depth, fixed first-step
// order), so identical windows always yield the identical step.
func localSearch(w *localWindow, start, goal Vec2i, maxDepth int) ([]Dir, string) {
	if w == nil || w.width <= 0 || w.height <= 0 {
		return nil, protocol.StatusNoPath
	}
	if start == goal {
		return nil, protocol.StatusOK
	}
	if maxDepth <= 0 {
		maxDepth = w.width * w.height
	}

	type qItem struct {
		p     Vec2i
		depth int
		first Dir
	}

	startDist := manhattan(start, goal)

	visited := map[Vec2i]bool{start: true}
	from := make(map[Vec2i]struct {
		prev Vec2i
		dir  Dir
	}, w.width*w.height)

	queue := make([]qItem, 0, w.width*w.height)
	for _, d := range dirOrder {
		np := step(start, d)
		t, ok := w.tileAt(np)
		if !ok || !t.enterable(d) {
			continue
		}
		visited[np] = true
		from[np] = struct {
			prev Vec2i
			dir  Dir
		}{start, d}
		queue = append(queue, qItem{p: np, depth: 1, first: d})
	}

	bestDist := startDist
	bestDepth := 0
	var bestFirst Dir
	found := false

	better := func(dist, depth int, first Dir) bool {
		if !found {
			return true
		}
		if dist != bestDist {
			return dist < bestDist
		}
		if depth != bestDepth {
			return depth < bestDepth
		}
		return first < bestFirst
	}

	for head := 0; head < len(queue); head++ {
		it := queue[head]

		if it.p == goal {
			moves := make([]Dir, 0, it.depth)
			for p := goal; p != start; {
				cf := from[p]
				moves = append(moves, cf.dir)
				p = cf.prev
			}
			for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
				moves[i], moves[j] = moves[j], moves[i]
			}
			return moves, protocol.StatusOK
		}

		if d := manhattan(it.p, goal); d < startDist && better(d, it.depth, it.first) {
			found = true
			bestDist = d
			bestDepth = it.depth
			bestFirst = it.first
		}

		if it.depth >= maxDepth {
			continue
		}
		for _, d := range dirOrder {
			np := step(it.p, d)
			if visited[np] {
				continue
			}
			t, ok := w.tileAt(np)
			if !ok || !t.enterable(d) {
				continue
			}
			visited[np] = true
			from[np] = struct {
				prev Vec2i
				dir  Dir
			}{it.p, d}
			queue = append(queue, qItem{p: np, depth: it.depth + 1, first: it.first})
		}
	}

	if !found {
		return nil, protocol.StatusNoPath
	}
	return []Dir{bestFirst}, protocol.StatusPartial
}
