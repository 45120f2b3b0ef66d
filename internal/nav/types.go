package nav

import "wayfinder.ai/internal/nav/terrain"

// Vec2i is an integer tile coordinate. Y grows downward, matching the
// row-major observation windows.
type Vec2i struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{v.X - o.X, v.Y - o.Y} }

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func manhattan(a, b Vec2i) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Dir doubles as the move token the executor hands out.
type Dir = terrain.Facing

const (
	DirUp    = terrain.FacingUp
	DirRight = terrain.FacingRight
	DirDown  = terrain.FacingDown
	DirLeft  = terrain.FacingLeft
)

// dirOrder is the fixed expansion order for every search in this
// package. Identical inputs must always produce identical paths.
var dirOrder = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

func step(p Vec2i, d Dir) Vec2i {
	switch d {
	case DirUp:
		return Vec2i{p.X, p.Y - 1}
	case DirRight:
		return Vec2i{p.X + 1, p.Y}
	case DirDown:
		return Vec2i{p.X, p.Y + 1}
	default:
		return Vec2i{p.X - 1, p.Y}
	}
}

// Rect is an inclusive coordinate rectangle.
type Rect struct {
	Min, Max Vec2i
}

func (r Rect) Contains(p Vec2i) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) extend(p Vec2i) Rect {
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
	return r
}

// GlobalPos pins a coordinate to an area. Always derived from a canvas,
// never stored on its own.
type GlobalPos struct {
	AreaID string `json:"area_id"`
	Pos    Vec2i  `json:"pos"`
}

// Tile is one observed cell. Ledge is meaningful only when Class is
// ClassLedge: the single direction the ledge can be entered from.
type Tile struct {
	Class terrain.Class
	Ledge terrain.Facing
}

// enterable reports whether a move in direction d may enter t. Ledges
// are one-way; the reverse edge does not exist.
func (t Tile) enterable(d Dir) bool {
	if !terrain.Traversable(t.Class) {
		return false
	}
	if t.Class == terrain.ClassLedge && t.Ledge != d {
		return false
	}
	return true
}
