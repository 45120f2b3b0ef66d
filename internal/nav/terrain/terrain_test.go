package terrain

import "testing"

func TestParseClassToken(t *testing.T) {
	cases := []struct {
		token  string
		class  Class
		facing Facing
	}{
		{"NORMAL", ClassNormal, 0},
		{"GRASS", ClassGrass, 0},
		{"OBSTACLE", ClassObstacle, 0},
		{"PORTAL", ClassPortal, 0},
		{"LEDGE_UP", ClassLedge, FacingUp},
		{"LEDGE_RIGHT", ClassLedge, FacingRight},
		{"LEDGE_DOWN", ClassLedge, FacingDown},
		{"LEDGE_LEFT", ClassLedge, FacingLeft},
	}
	for _, c := range cases {
		cl, f, err := ParseClassToken(c.token)
		if err != nil {
			t.Fatalf("%s: %v", c.token, err)
		}
		if cl != c.class || f != c.facing {
			t.Fatalf("%s = (%v,%v), want (%v,%v)", c.token, cl, f, c.class, c.facing)
		}
		if got := ClassToken(cl, f); got != c.token {
			t.Fatalf("round trip %s -> %s", c.token, got)
		}
	}
	if _, _, err := ParseClassToken("WATER"); err == nil {
		t.Fatalf("unknown token accepted")
	}
}

func TestCost(t *testing.T) {
	if got := Cost(ClassNormal, true); got != 1.0 {
		t.Fatalf("normal = %v", got)
	}
	if got := Cost(ClassGrass, true); got != 3.0 {
		t.Fatalf("grass avoided = %v", got)
	}
	if got := Cost(ClassGrass, false); got != 1.0 {
		t.Fatalf("grass unavoided = %v", got)
	}
	if got := Cost(ClassLedge, false); got != 1.2 {
		t.Fatalf("ledge = %v", got)
	}
	if got := Cost(ClassPortal, true); got != 1.0 {
		t.Fatalf("portal = %v", got)
	}
}

func TestTraversable(t *testing.T) {
	for _, c := range []Class{ClassNormal, ClassGrass, ClassLedge, ClassPortal} {
		if !Traversable(c) {
			t.Fatalf("%v should be traversable", c)
		}
	}
	for _, c := range []Class{ClassObstacle, ClassUnknown} {
		if Traversable(c) {
			t.Fatalf("%v should not be traversable", c)
		}
	}
}

func TestParseFacing(t *testing.T) {
	for _, f := range []Facing{FacingUp, FacingRight, FacingDown, FacingLeft} {
		got, err := ParseFacing(f.String())
		if err != nil || got != f {
			t.Fatalf("%v round trip = %v, %v", f, got, err)
		}
	}
	if _, err := ParseFacing("NORTH"); err == nil {
		t.Fatalf("bad facing accepted")
	}
}
