package nav

import "testing"

// Raw-code legend shared by every test observation. Mirrors the default
// configs/terrain.json shape.
var testLegend = map[int]string{
	0: "NORMAL",
	1: "GRASS",
	2: "OBSTACLE",
	3: "PORTAL",
	4: "LEDGE_UP",
	5: "LEDGE_RIGHT",
	6: "LEDGE_DOWN",
	7: "LEDGE_LEFT",
}

// codesFromRows turns an ASCII map into raw terrain codes:
// '.' normal, '~' grass, '#' obstacle, 'O' portal, '^>v<' ledges.
func codesFromRows(t *testing.T, rows []string) (codes []int, w, h int) {
	t.Helper()
	if len(rows) == 0 {
		t.Fatalf("empty map")
	}
	w = len(rows[0])
	h = len(rows)
	for _, row := range rows {
		if len(row) != w {
			t.Fatalf("ragged map row %q", row)
		}
		for _, ch := range row {
			var c int
			switch ch {
			case '.':
				c = 0
			case '~':
				c = 1
			case '#':
				c = 2
			case 'O':
				c = 3
			case '^':
				c = 4
			case '>':
				c = 5
			case 'v':
				c = 6
			case '<':
				c = 7
			default:
				t.Fatalf("unknown map char %q", ch)
			}
			codes = append(codes, c)
		}
	}
	return codes, w, h
}

func newTestSession() *Session {
	return NewSession(Config{}, nil, nil)
}

// ingestRows feeds one observation built from an ASCII map, window
// anchored at origin, player at the given area-local position.
func ingestRows(t *testing.T, s *Session, areaID string, origin, player Vec2i, rows []string, portals ...Portal) {
	t.Helper()
	codes, w, h := codesFromRows(t, rows)
	s.Ingest(Observation{
		AreaID:  areaID,
		Player:  player,
		Origin:  origin,
		Width:   w,
		Height:  h,
		Codes:   codes,
		Legend:  testLegend,
		Portals: portals,
	})
}

func movesEqual(a, b []Dir) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dirNames(moves []Dir) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
