package terrain

import "fmt"

// Class is the closed set of terrain classes the planners understand.
// Perception codes are mapped onto this set at the ingest boundary;
// anything unmappable rejects the whole observation.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassNormal
	ClassGrass
	ClassLedge
	ClassObstacle
	ClassPortal
)

func (c Class) String() string {
	switch c {
	case ClassNormal:
		return "NORMAL"
	case ClassGrass:
		return "GRASS"
	case ClassLedge:
		return "LEDGE"
	case ClassObstacle:
		return "OBSTACLE"
	case ClassPortal:
		return "PORTAL"
	default:
		return "UNKNOWN"
	}
}

// Facing is a cardinal direction. The order Up, Right, Down, Left is
// load-bearing: planners expand neighbors in this order so equal-cost
// searches stay deterministic.
type Facing uint8

const (
	FacingUp Facing = iota
	FacingRight
	FacingDown
	FacingLeft
)

func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "UP"
	case FacingRight:
		return "RIGHT"
	case FacingDown:
		return "DOWN"
	default:
		return "LEFT"
	}
}

func ParseFacing(s string) (Facing, error) {
	switch s {
	case "UP":
		return FacingUp, nil
	case "RIGHT":
		return FacingRight, nil
	case "DOWN":
		return FacingDown, nil
	case "LEFT":
		return FacingLeft, nil
	}
	return 0, fmt.Errorf("terrain: bad facing %q", s)
}

// Wire class tokens. Ledges fold their facing into the token so a flat
// string legend can express them.
var classTokens = map[string]struct {
	class  Class
	facing Facing
}{
	"NORMAL":      {ClassNormal, 0},
	"GRASS":       {ClassGrass, 0},
	"OBSTACLE":    {ClassObstacle, 0},
	"PORTAL":      {ClassPortal, 0},
	"LEDGE_UP":    {ClassLedge, FacingUp},
	"LEDGE_RIGHT": {ClassLedge, FacingRight},
	"LEDGE_DOWN":  {ClassLedge, FacingDown},
	"LEDGE_LEFT":  {ClassLedge, FacingLeft},
}

// ParseClassToken maps a legend token to a class (and ledge facing).
func ParseClassToken(s string) (Class, Facing, error) {
	t, ok := classTokens[s]
	if !ok {
		return ClassUnknown, 0, fmt.Errorf("terrain: unknown class token %q", s)
	}
	return t.class, t.facing, nil
}

// ClassToken is the inverse of ParseClassToken.
func ClassToken(c Class, f Facing) string {
	if c == ClassLedge {
		return "LEDGE_" + f.String()
	}
	return c.String()
}

// Traversable reports whether a tile of this class can ever be entered.
// Ledge entry is additionally direction-gated; that check lives in the
// planners since it depends on the move direction.
func Traversable(c Class) bool {
	switch c {
	case ClassNormal, ClassGrass, ClassLedge, ClassPortal:
		return true
	}
	return false
}

// Cost returns the per-step cost of entering a tile of this class.
// Pure and stateless: the same class always costs the same.
func Cost(c Class, avoidHazard bool) float64 {
	switch c {
	case ClassNormal, ClassPortal:
		return 1.0
	case ClassGrass:
		if avoidHazard {
			return 3.0
		}
		return 1.0
	case ClassLedge:
		return 1.2
	}
	return 0
}
