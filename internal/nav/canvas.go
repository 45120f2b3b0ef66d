package nav

import "wayfinder.ai/internal/nav/terrain"

// AreaCanvas accumulates every tile ever observed in one area. Tiles are
// keyed by area-local coordinates; the origin offset anchors the area in
// the session-wide global frame. Canvases are created lazily on first
// entry and live for the session lifetime.
type AreaCanvas struct {
	ID string

	tiles map[Vec2i]Tile

	origin    Vec2i
	originSet bool

	bounds    Rect
	boundsSet bool
}

func newAreaCanvas(id string) *AreaCanvas {
	return &AreaCanvas{
		ID:    id,
		tiles: make(map[Vec2i]Tile, 256),
	}
}

// OriginOffset returns the global-frame anchor. Set exactly once, on the
// first write; all coordinate math for the area depends on it never
// moving afterwards.
func (c *AreaCanvas) OriginOffset() (Vec2i, bool) {
	return c.origin, c.originSet
}

// Bounds returns the explored bounding rectangle in area-local
// coordinates. It only ever grows.
func (c *AreaCanvas) Bounds() (Rect, bool) {
	return c.bounds, c.boundsSet
}

func (c *AreaCanvas) Explored() int { return len(c.tiles) }

// TileAt returns the accumulated tile at an area-local coordinate.
// ok is false for never-observed coordinates.
func (c *AreaCanvas) TileAt(p Vec2i) (Tile, bool) {
	t, ok := c.tiles[p]
	return t, ok
}

// setTile merges one observed cell. Last write wins; bounds extend to
// cover the coordinate.
func (c *AreaCanvas) setTile(p Vec2i, t Tile) {
	c.tiles[p] = t
	if !c.boundsSet {
		c.bounds = Rect{Min: p, Max: p}
		c.boundsSet = true
		return
	}
	c.bounds = c.bounds.extend(p)
}

// ToGlobal translates an area-local coordinate into the global frame.
// ok is false until the origin offset has been established.
func (c *AreaCanvas) ToGlobal(local Vec2i) (Vec2i, bool) {
	if !c.originSet {
		return Vec2i{}, false
	}
	return local.Add(c.origin), true
}

// ToLocal is the inverse of ToGlobal.
func (c *AreaCanvas) ToLocal(global Vec2i) (Vec2i, bool) {
	if !c.originSet {
		return Vec2i{}, false
	}
	return global.Sub(c.origin), true
}

// Query returns the sub-grid covering rect (row-major) and whether every
// cell of the rectangle has been explored. Unexplored cells come back as
// zero tiles (ClassUnknown).
func (c *AreaCanvas) Query(rect Rect) ([]Tile, bool) {
	w := rect.Max.X - rect.Min.X + 1
	h := rect.Max.Y - rect.Min.Y + 1
	if w <= 0 || h <= 0 {
		return nil, false
	}
	out := make([]Tile, 0, w*h)
	complete := true
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			t, ok := c.tiles[Vec2i{x, y}]
			if !ok {
				complete = false
				t = Tile{Class: terrain.ClassUnknown}
			}
			out = append(out, t)
		}
	}
	return out, complete
}
