package nav

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/protocol"
)

// Observation is one bounded local-window snapshot from perception.
// Codes is row-major, Width*Height entries. Legend optionally overrides
// the session catalog per raw code for this observation.
type Observation struct {
	Tick   uint64
	AreaID string
	Player Vec2i
	Origin Vec2i // window top-left, area-local
	Width  int
	Height int
	Codes  []int

	Legend  map[int]string
	Portals []Portal
}

// digest covers area, player position and window content. Two identical
// consecutive observations (agent stationary or blocked) hash the same
// and the second merge is skipped entirely.
func (o Observation) digest() string {
	h := sha256.New()
	h.Write([]byte(o.AreaID))
	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}
	writeInt(o.Player.X)
	writeInt(o.Player.Y)
	writeInt(o.Origin.X)
	writeInt(o.Origin.Y)
	writeInt(o.Width)
	writeInt(o.Height)
	for _, c := range o.Codes {
		writeInt(c)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Ingest folds one observation into the session's world model. Side
// effect only: malformed input is logged and skipped, never surfaced to
// the caller; the step loop must keep turning regardless.
func (s *Session) Ingest(obs Observation) {
	if obs.AreaID == "" || obs.Width <= 0 || obs.Height <= 0 || len(obs.Codes) != obs.Width*obs.Height {
		s.stats.Rejected++
		s.logf("%s: area=%q dims=%dx%d codes=%d", protocol.ErrInvalidObservation, obs.AreaID, obs.Width, obs.Height, len(obs.Codes))
		return
	}

	d := obs.digest()
	if d == s.lastDigest {
		s.stats.Deduped++
		return
	}

	// Resolve every code before touching the canvas: an unmapped code
	// rejects the whole observation rather than defaulting to NORMAL.
	tiles := make([]Tile, len(obs.Codes))
	for i, code := range obs.Codes {
		cl, facing, ok := s.resolveCode(code, obs.Legend)
		if !ok {
			s.stats.Rejected++
			s.logf("%s: area=%q unmapped terrain code %d", protocol.ErrInvalidObservation, obs.AreaID, code)
			return
		}
		tiles[i] = Tile{Class: cl, Ledge: facing}
	}

	for _, p := range obs.Portals {
		if p.ID == "" || p.FromArea == "" || p.ToArea == "" {
			s.stats.Rejected++
			s.logf("%s: area=%q bad portal %+v", protocol.ErrInvalidObservation, obs.AreaID, p)
			return
		}
		switch p.Kind {
		case PortalWarp, PortalDrop, PortalOpenEdge:
		default:
			s.stats.Rejected++
			s.logf("%s: area=%q portal %s bad kind %q", protocol.ErrInvalidObservation, obs.AreaID, p.ID, p.Kind)
			return
		}
	}

	c := s.store.GetOrCreate(obs.AreaID)
	s.store.Write(c, tiles, obs.Origin, obs.Width)
	for _, p := range obs.Portals {
		s.routes.AddPortal(p)
	}

	s.windows[obs.AreaID] = &localWindow{
		origin: obs.Origin,
		width:  obs.Width,
		height: obs.Height,
		tiles:  tiles,
	}
	s.cur = GlobalPos{AreaID: obs.AreaID, Pos: obs.Player}
	s.hasPos = true
	s.lastDigest = d
	s.stats.Ingested++
}

func (s *Session) resolveCode(code int, legend map[int]string) (terrain.Class, terrain.Facing, bool) {
	if token, ok := legend[code]; ok {
		cl, f, err := terrain.ParseClassToken(token)
		if err != nil {
			return terrain.ClassUnknown, 0, false
		}
		return cl, f, true
	}
	if s.legend == nil {
		return terrain.ClassUnknown, 0, false
	}
	return s.legend.Kind(code)
}
