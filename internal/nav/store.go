package nav

// MapStore owns every AreaCanvas of one session. It is an explicit
// handle held by the session, never a package-level singleton, so
// independent sessions (and tests) never share state.
//
// The store is mutated only by ingest; planners only read it. That
// single-caller discipline is the whole concurrency story — if parallel
// ingestion is ever introduced, origin establishment below must become
// an exactly-once guarded operation first.
type MapStore struct {
	areas map[string]*AreaCanvas
	order []string // creation order, drives offset block assignment

	offsetStride int
}

func NewMapStore(offsetStride int) *MapStore {
	if offsetStride <= 0 {
		offsetStride = DefaultOffsetStride
	}
	return &MapStore{
		areas:        make(map[string]*AreaCanvas, 8),
		offsetStride: offsetStride,
	}
}

// DefaultOffsetStride spaces area origin blocks far enough apart that no
// plausible canvas ever overlaps its neighbor in global space.
const DefaultOffsetStride = 1 << 16

// GetOrCreate returns the canvas for an area, allocating an empty one
// (origin unset) on first entry.
func (s *MapStore) GetOrCreate(areaID string) *AreaCanvas {
	if c, ok := s.areas[areaID]; ok {
		return c
	}
	c := newAreaCanvas(areaID)
	s.areas[areaID] = c
	s.order = append(s.order, areaID)
	return c
}

// Get returns the canvas if the area has ever been entered.
func (s *MapStore) Get(areaID string) (*AreaCanvas, bool) {
	c, ok := s.areas[areaID]
	return c, ok
}

// AreaIDs returns every known area in creation order.
func (s *MapStore) AreaIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Write merges a row-major window of tiles into the canvas. The first
// write to a canvas establishes its origin offset: the first area ever
// written anchors at (0,0), each later area gets its own disjoint
// coordinate block along X so areas can never collide in global space.
func (s *MapStore) Write(c *AreaCanvas, tiles []Tile, windowOrigin Vec2i, width int) {
	if width <= 0 || len(tiles)%width != 0 {
		return
	}
	if !c.originSet {
		c.origin = s.nextOrigin(c.ID)
		c.originSet = true
	}
	for i, t := range tiles {
		p := Vec2i{
			X: windowOrigin.X + i%width,
			Y: windowOrigin.Y + i/width,
		}
		c.setTile(p, t)
	}
}

func (s *MapStore) nextOrigin(areaID string) Vec2i {
	// Creation order is stable for the session, so the block index is
	// stable too.
	for i, id := range s.order {
		if id == areaID {
			return Vec2i{X: i * s.offsetStride}
		}
	}
	return Vec2i{X: len(s.order) * s.offsetStride}
}
