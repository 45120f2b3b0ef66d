package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"wayfinder.ai/internal/nav"
	"wayfinder.ai/internal/nav/terrain"
	"wayfinder.ai/internal/persistence/journal"
	"wayfinder.ai/internal/persistence/navdb"
	"wayfinder.ai/internal/transport/ws"
	"wayfinder.ai/internal/tuning"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		schemasDir = flag.String("schemas", "./schemas", "protocol schema directory (empty to disable validation)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")

		dbPath    = flag.String("db", "", "sqlite snapshot db path (default: <data>/wayfinder.db; 'off' disables)")
		restore   = flag.Bool("restore", true, "restore the canvas snapshot from the db at startup")
		noJournal = flag.Bool("disable_journal", false, "disable the observation journal")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	legend, err := terrain.LoadCatalog(filepath.Join(*configDir, "terrain.json"))
	if err != nil {
		logger.Fatalf("load terrain catalog: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tn, err := tuning.Load(tp)
	if err != nil {
		logger.Printf("tuning: %v (using defaults)", err)
		tn = tuning.Default()
	}

	var db *navdb.Store
	dp := strings.TrimSpace(*dbPath)
	if dp == "" {
		dp = filepath.Join(*dataDir, "wayfinder.db")
	}
	if dp != "off" {
		db, err = navdb.Open(dp)
		if err != nil {
			logger.Fatalf("open snapshot db: %v", err)
		}
		defer db.Close()
	}

	var jw *journal.Writer
	if !*noJournal {
		jw = journal.NewWriter(filepath.Join(*dataDir, "journal"))
		defer jw.Close()
	}

	// One shared world model behind all connections is deliberately NOT
	// what this server does: each connection gets its own session so
	// independent agents never share canvas state.
	newSession := func() *nav.Session {
		sess := nav.NewSession(nav.Config{
			OffsetStride:     tn.OffsetStride,
			NodeBudget:       tn.NodeBudget,
			LocalSearchDepth: tn.LocalSearchDepth,
			MaxBatchSteps:    tn.MaxBatchSteps,
		}, legend, logger)
		if db != nil && *restore {
			snap, err := db.Load()
			if err != nil {
				logger.Printf("restore snapshot: %v", err)
			} else if err := sess.Restore(snap); err != nil {
				logger.Printf("restore snapshot: %v", err)
			} else if len(snap.Areas) > 0 {
				logger.Printf("restored %d areas, %d portals", len(snap.Areas), len(snap.Portals))
			}
		}
		return sess
	}

	// Snapshot the explored model when a connection ends so the next
	// session can restore it.
	onClose := func(sess *nav.Session) {
		if db == nil {
			return
		}
		if err := db.Save(sess.Snapshot()); err != nil {
			logger.Printf("save snapshot: %v", err)
		}
	}

	srv, err := ws.NewServer(ws.Config{
		NewSession:   newSession,
		OnClose:      onClose,
		Journal:      jw,
		Logger:       logger,
		LegendDigest: legend.Digest,
		SchemasDir:   strings.TrimSpace(*schemasDir),
	})
	if err != nil {
		logger.Fatalf("ws server: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/statusz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"legend_digest": legend.Digest,
			"node_budget":   tn.NodeBudget,
		})
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	logger.Printf("shutdown complete")
}
