// Command replay rebuilds a navigation session from a recorded
// observation journal and reports what the stitched model looks like.
// Optionally writes the resulting snapshot to a sqlite db.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"wayfinder.ai/internal/nav"
	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/persistence/journal"
	"wayfinder.ai/internal/persistence/navdb"
	"wayfinder.ai/internal/protocol"
	"wayfinder.ai/internal/transport/ws"
)

func main() {
	var (
		journalDir = flag.String("journal", "", "journal directory containing obs-*.jsonl.zst")
		configDir  = flag.String("configs", "./configs", "config directory")
		dbPath     = flag.String("db", "", "write the rebuilt snapshot to this sqlite db (optional)")
	)
	flag.Parse()

	if *journalDir == "" {
		fmt.Fprintln(os.Stderr, "missing -journal")
		os.Exit(2)
	}

	legend, err := terrain.LoadCatalog(filepath.Join(*configDir, "terrain.json"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load terrain catalog:", err)
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "[replay] ", log.LstdFlags)
	sess := nav.NewSession(nav.Config{}, legend, logger)

	files, err := journal.ListFiles(*journalDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list journal:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no journal files found in", *journalDir)
		os.Exit(1)
	}

	var replayed uint64
	for _, path := range files {
		err := journal.ReadFile(path, func(m protocol.ObsMsg) error {
			sess.Ingest(ws.ObsFromMsg(m))
			replayed++
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}

	stats := sess.Stats()
	fmt.Printf("replayed %d observations: merged=%d deduped=%d rejected=%d\n",
		replayed, stats.Ingested, stats.Deduped, stats.Rejected)

	store := sess.Store()
	for _, id := range store.AreaIDs() {
		c, _ := store.Get(id)
		origin, _ := c.OriginOffset()
		bounds, ok := c.Bounds()
		if !ok {
			fmt.Printf("area %s: empty\n", id)
			continue
		}
		fmt.Printf("area %s: origin=(%d,%d) bounds=(%d,%d)..(%d,%d) explored=%d\n",
			id, origin.X, origin.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y, c.Explored())
	}
	for _, p := range sess.Routes().Portals() {
		fmt.Printf("portal %s: %s(%d,%d) -> %s(%d,%d) kind=%s cost=%.1f\n",
			p.ID, p.FromArea, p.From.X, p.From.Y, p.ToArea, p.To.X, p.To.Y, p.Kind, p.Cost)
	}

	if *dbPath != "" {
		db, err := navdb.Open(*dbPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open db:", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Save(sess.Snapshot()); err != nil {
			fmt.Fprintln(os.Stderr, "save snapshot:", err)
			os.Exit(1)
		}
		fmt.Println("snapshot written to", *dbPath)
	}
}
