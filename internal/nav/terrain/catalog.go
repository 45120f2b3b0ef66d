package terrain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Catalog is the authoritative mapping from raw perception codes to
// terrain classes. Loaded once at startup and validated strictly:
// duplicate codes and unknown class tokens are load errors, not
// defaults.
type Catalog struct {
	Defs   map[int]Def
	Digest string
}

type Def struct {
	Code    int    `json:"code"`
	ClassID string `json:"class"`

	class  Class
	facing Facing
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var defs []Def
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("terrain.json: %w", err)
	}

	c := &Catalog{Defs: make(map[int]Def, len(defs))}
	for _, d := range defs {
		if _, dup := c.Defs[d.Code]; dup {
			return nil, fmt.Errorf("terrain.json: duplicate code %d", d.Code)
		}
		cl, f, err := ParseClassToken(d.ClassID)
		if err != nil {
			return nil, fmt.Errorf("terrain.json: code %d: %w", d.Code, err)
		}
		d.class = cl
		d.facing = f
		c.Defs[d.Code] = d
	}

	// Digest over the sorted code->class pairs so it is stable across
	// file formatting changes.
	codes := make([]int, 0, len(c.Defs))
	for code := range c.Defs {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	canon := make([][2]any, 0, len(codes))
	for _, code := range codes {
		canon = append(canon, [2]any{code, c.Defs[code].ClassID})
	}
	b, _ := json.Marshal(canon)
	sum := sha256.Sum256(b)
	c.Digest = hex.EncodeToString(sum[:])

	return c, nil
}

// Kind resolves a raw code. ok is false for codes the catalog has never
// heard of; callers must treat that as a rejected observation rather
// than defaulting to NORMAL.
func (c *Catalog) Kind(code int) (Class, Facing, bool) {
	d, ok := c.Defs[code]
	if !ok {
		return ClassUnknown, 0, false
	}
	return d.class, d.facing, true
}
