package nav

import (
	"fmt"

	"wayfinder.ai/internal/nav/terrain"
)

// Snapshot is the serializable form of the explored world model: the
// canvas set and the portal graph. Persistence of this core is a host
// concern; the session only knows how to export and re-import itself.
type Snapshot struct {
	Areas   []AreaSnapshot
	Portals []Portal
}

type AreaSnapshot struct {
	ID     string
	Origin Vec2i
	Tiles  []TileSnapshot
}

type TileSnapshot struct {
	X, Y  int
	Class string // class token, ledge facing folded in
}

// Snapshot exports the current canvases and portals. Area order is the
// creation order so offsets stay consistent after a restore.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{Portals: s.routes.Portals()}
	for _, id := range s.store.AreaIDs() {
		c, _ := s.store.Get(id)
		as := AreaSnapshot{ID: id}
		as.Origin, _ = c.OriginOffset()
		bounds, ok := c.Bounds()
		if ok {
			for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
				for x := bounds.Min.X; x <= bounds.Max.X; x++ {
					t, known := c.TileAt(Vec2i{x, y})
					if !known {
						continue
					}
					as.Tiles = append(as.Tiles, TileSnapshot{
						X: x, Y: y,
						Class: terrain.ClassToken(t.Class, t.Ledge),
					})
				}
			}
		}
		snap.Areas = append(snap.Areas, as)
	}
	return snap
}

// Restore rebuilds the store and route graph from a snapshot. Origin
// offsets are taken verbatim from the snapshot, never reassigned; the
// per-area dedupe and window state start cold.
func (s *Session) Restore(snap *Snapshot) error {
	store := NewMapStore(s.cfg.OffsetStride)
	for _, as := range snap.Areas {
		c := store.GetOrCreate(as.ID)
		c.origin = as.Origin
		c.originSet = true
		for _, ts := range as.Tiles {
			cl, f, err := terrain.ParseClassToken(ts.Class)
			if err != nil {
				return fmt.Errorf("snapshot area %s tile (%d,%d): %w", as.ID, ts.X, ts.Y, err)
			}
			c.setTile(Vec2i{ts.X, ts.Y}, Tile{Class: cl, Ledge: f})
		}
	}
	routes := NewRouteGraph()
	for _, p := range snap.Portals {
		routes.AddPortal(p)
	}
	s.store = store
	s.routes = routes
	s.windows = make(map[string]*localWindow, 8)
	s.lastDigest = ""
	s.plan = nil
	s.hasPos = false
	return nil
}
