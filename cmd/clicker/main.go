// Command clicker runs the Corgi Clicker game server: the progression
// engine plus its HTTP surface, with autosave to SQLite.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/michaelhills23/corgi-clicker/internal/api"
	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/config"
	"github.com/michaelhills23/corgi-clicker/internal/game"
	"github.com/michaelhills23/corgi-clicker/internal/save"
	"github.com/michaelhills23/corgi-clicker/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	// ── Catalogs ──────────────────────────────────────────────────────
	cat := catalog.MustLoad()
	slog.Info("catalogs loaded",
		"upgrades", cat.Upgrades.Count(),
		"cosmetics", cat.Cosmetics.Count(),
		"corgis", cat.Corgis.Count(),
		"achievements", cat.Achievements.Count(),
	)

	// ── Save store ────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	saves, err := save.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open save database", "error", err)
		os.Exit(1)
	}
	defer saves.Close()
	slog.Info("save database opened", "path", cfg.DBPath)

	// ── Load or start fresh ───────────────────────────────────────────
	var store *game.Store
	if loaded, err := saves.Load(); err == nil && loaded != nil {
		store = game.NewStoreFrom(*loaded)
		slog.Info("save restored",
			"level", loaded.Level,
			"currency", loaded.Currency,
			"prestige_level", loaded.PrestigeLevel,
			"total_clicks", loaded.TotalClicks,
		)
	} else {
		store = game.NewStore()
		slog.Info("no save found, starting fresh")
		if err := saves.Save(store.Snapshot()); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Session + HTTP API ────────────────────────────────────────────
	sess := session.New(store, saves, cfg.AutosaveInterval)

	if cfg.AdminKey == "" {
		slog.Warn("CLICKER_ADMIN_KEY not set — action endpoints are unauthenticated")
	}
	server := &api.Server{
		Game:     store,
		Catalog:  cat,
		Saves:    saves,
		Session:  sess,
		Port:     cfg.APIPort,
		AdminKey: cfg.AdminKey,
	}
	server.Start()

	// ── Run until signalled ───────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		sess.Stop()
	}()

	fmt.Printf("Corgi Clicker is up: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Press Ctrl+C to stop.")

	sess.Run()

	fmt.Println("Game stopped. Save flushed.")
}
