package nav

import (
	"fmt"

	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/protocol"
)

// IncompatibleError marks a canvas the global planner must not trust for
// the current tick. Callers route the request to the local fallback; the
// canvas itself is left alone and keeps accumulating observations.
type IncompatibleError struct {
	Code   string
	Reason string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func incompatible(format string, args ...any) *IncompatibleError {
	return &IncompatibleError{
		Code:   protocol.ErrCoordinateIncompatible,
		Reason: fmt.Sprintf(format, args...),
	}
}

// validateCanvas is the constant-time staleness check run before every
// global plan: the canvas must exist, the player's translated global
// position must fall inside the translated explored bounds, and the
// player must not be standing on a tile the canvas believes is an
// obstacle (a contradiction that means the stitch is wrong).
func validateCanvas(c *AreaCanvas, playerLocal Vec2i) error {
	if c == nil {
		return incompatible("no canvas for area")
	}
	bounds, ok := c.Bounds()
	if !ok {
		return incompatible("canvas %s has no explored tiles", c.ID)
	}
	global, ok := c.ToGlobal(playerLocal)
	if !ok {
		return incompatible("canvas %s has no origin offset", c.ID)
	}
	gmin, _ := c.ToGlobal(bounds.Min)
	gmax, _ := c.ToGlobal(bounds.Max)
	if !(Rect{Min: gmin, Max: gmax}).Contains(global) {
		return incompatible("player %v outside canvas %s bounds %v..%v", global, c.ID, gmin, gmax)
	}
	if t, known := c.TileAt(playerLocal); known && t.Class == terrain.ClassObstacle {
		return incompatible("player standing on obstacle at %v in %s", playerLocal, c.ID)
	}
	return nil
}
