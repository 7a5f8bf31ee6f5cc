// Package api serves the game over HTTP for the presentation layer.
// GET endpoints are public (read-only derived state). POST endpoints
// mutate the game and require a bearer token when one is configured.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/michaelhills23/corgi-clicker/internal/catalog"
	"github.com/michaelhills23/corgi-clicker/internal/game"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
	"github.com/michaelhills23/corgi-clicker/internal/save"
	"github.com/michaelhills23/corgi-clicker/internal/session"
)

// Server serves game state and actions over HTTP.
type Server struct {
	Game     *game.Store
	Catalog  *catalog.Catalog
	Saves    *save.Store
	Session  *session.Session
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = auth disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Import rewrites the whole save; keep it from being hammered.
	importLimiter := NewRateLimiter(10, time.Hour)

	mux := http.NewServeMux()

	// Public read endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/upgrades", s.handleUpgrades)
	mux.HandleFunc("/api/v1/cosmetics", s.handleCosmetics)
	mux.HandleFunc("/api/v1/corgis", s.handleCorgis)
	mux.HandleFunc("/api/v1/achievements", s.handleAchievements)
	mux.HandleFunc("/api/v1/save/export", s.handleExport)

	// Gameplay actions.
	mux.HandleFunc("/api/v1/click", s.action(s.handleClick))
	mux.HandleFunc("/api/v1/upgrades/buy", s.action(s.handleBuyUpgrade))
	mux.HandleFunc("/api/v1/cosmetics/buy", s.action(s.handleBuyCosmetic))
	mux.HandleFunc("/api/v1/cosmetics/equip", s.action(s.handleEquipCosmetic))
	mux.HandleFunc("/api/v1/cosmetics/unequip", s.action(s.handleUnequipCosmetic))
	mux.HandleFunc("/api/v1/corgis/unlock", s.action(s.handleUnlockCorgi))
	mux.HandleFunc("/api/v1/corgis/activate", s.action(s.handleActivateCorgi))
	mux.HandleFunc("/api/v1/corgis/name", s.action(s.handleNameCorgi))
	mux.HandleFunc("/api/v1/achievements/claim", s.action(s.handleClaimAchievements))
	mux.HandleFunc("/api/v1/clickvalue", s.action(s.handleSetClickValue))
	mux.HandleFunc("/api/v1/prestige", s.action(s.handlePrestige))
	mux.HandleFunc("/api/v1/reset", s.action(s.handleReset))

	// Save management.
	mux.HandleFunc("/api/v1/save/flush", s.action(s.handleFlush))
	mux.HandleFunc("/api/v1/save/backup", s.action(s.handleBackup))
	mux.HandleFunc("/api/v1/save/restore", s.action(s.handleRestore))
	mux.HandleFunc("/api/v1/save/import", RateLimitMiddleware(importLimiter, s.action(s.handleImport)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// action guards a mutating handler: POST only, bearer token when
// configured.
func (s *Server) action(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	return strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.Game.Snapshot()

	writeJSON(w, map[string]any{
		"currency":         st.Currency,
		"currency_pretty":  humanize.Commaf(st.Currency),
		"level":            st.Level,
		"title":            progression.LevelTitle(st.Level),
		"level_progress":   progression.LevelProgress(st.TotalEarned, st.Level),
		"next_threshold":   progression.LevelThreshold(st.Level + 1),
		"click_value":      st.ClickValue * st.PrestigeMultiplier,
		"prestige_level":   st.PrestigeLevel,
		"prestige_bonus":   st.PrestigeMultiplier,
		"can_prestige":     progression.CanPrestige(st.Level),
		"prestige_points":  progression.PrestigePoints(st.TotalEarned, st.Level),
		"total_clicks":     st.TotalClicks,
		"total_gas_liters": st.TotalGasLiters,
		"play_time":        (time.Duration(st.TotalPlayTime) * time.Second).String(),
		"active_corgi":     st.ActiveCorgi,
		"corgi_name":       st.CorgiName,
		"last_saved":       humanize.Time(time.UnixMilli(st.LastSaved)),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Game.Snapshot())
}

func (s *Server) handleUpgrades(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"definitions": s.Catalog.Upgrades.All(),
		"views":       s.Game.UpgradeViews(s.Catalog),
	})
}

func (s *Server) handleCosmetics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"definitions": s.Catalog.Cosmetics.All(),
		"views":       s.Game.CosmeticViews(s.Catalog),
	})
}

func (s *Server) handleCorgis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"definitions": s.Catalog.Corgis.All(),
		"views":       s.Game.CorgiViews(s.Catalog),
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	st := s.Game.Snapshot()
	writeJSON(w, map[string]any{
		"definitions": s.Catalog.Achievements.All(),
		"unlocked":    st.Achievements,
		"pending":     s.Game.PendingAchievements(s.Catalog),
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	earned := s.Game.Click()
	writeJSON(w, map[string]any{
		"earned":   earned,
		"currency": s.Game.Snapshot().Currency,
		"level":    s.Game.Level(),
	})
}

type idRequest struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func readID(r *http.Request) (idRequest, error) {
	var req idRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("decode request: %w", err)
	}
	if req.ID == "" {
		return req, fmt.Errorf("missing id")
	}
	return req, nil
}

// handleBuyUpgrade recomputes the cost server-side from the catalog and
// the owned level; the client never names its own price.
func (s *Server) handleBuyUpgrade(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def := s.Catalog.Upgrades.ByID(req.ID)
	if def == nil {
		http.Error(w, "unknown upgrade", http.StatusNotFound)
		return
	}

	st := s.Game.Snapshot()
	owned := st.UpgradeLevel(def.ID)
	if owned >= def.MaxLevel {
		writeJSON(w, map[string]any{"applied": false, "reason": "max level"})
		return
	}
	if !catalog.RequirementMet(def.Unlock, st.Progress()) {
		writeJSON(w, map[string]any{"applied": false, "reason": "locked"})
		return
	}

	cost := catalog.UpgradeCost(def, owned)
	applied := s.Game.PurchaseUpgrade(def.ID, cost)
	writeJSON(w, map[string]any{"applied": applied, "cost": cost})
}

func (s *Server) handleBuyCosmetic(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def := s.Catalog.Cosmetics.ByID(req.ID)
	if def == nil {
		http.Error(w, "unknown cosmetic", http.StatusNotFound)
		return
	}
	if !catalog.RequirementMet(def.Unlock, s.Game.Progress()) {
		writeJSON(w, map[string]any{"applied": false, "reason": "locked"})
		return
	}

	applied := s.Game.PurchaseCosmetic(def.ID, def.Cost)
	writeJSON(w, map[string]any{"applied": applied, "cost": def.Cost})
}

func (s *Server) handleEquipCosmetic(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"applied": s.Game.EquipCosmetic(req.ID)})
}

func (s *Server) handleUnequipCosmetic(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Game.UnequipCosmetic(req.ID)
	writeJSON(w, map[string]any{"applied": true})
}

// handleUnlockCorgi charges on unlock: currency-priced corgis
// are paid for through a currency deduction, others just need their
// requirement met. Secret corgis cannot be unlocked through this endpoint.
func (s *Server) handleUnlockCorgi(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	def := s.Catalog.Corgis.ByID(req.ID)
	if def == nil {
		http.Error(w, "unknown corgi", http.StatusNotFound)
		return
	}

	if cost, priced := def.Cost(); priced {
		if !catalog.Affordable(cost, s.Game.Snapshot().Currency) {
			writeJSON(w, map[string]any{"applied": false, "reason": "unaffordable"})
			return
		}
		if !s.Game.UnlockCorgi(def.ID) {
			writeJSON(w, map[string]any{"applied": false, "reason": "owned"})
			return
		}
		s.Game.AddCurrency(-cost)
		writeJSON(w, map[string]any{"applied": true, "cost": cost})
		return
	}

	if !catalog.RequirementMet(&def.Unlock, s.Game.Progress()) {
		writeJSON(w, map[string]any{"applied": false, "reason": "locked"})
		return
	}
	writeJSON(w, map[string]any{"applied": s.Game.UnlockCorgi(def.ID)})
}

func (s *Server) handleActivateCorgi(w http.ResponseWriter, r *http.Request) {
	req, err := readID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		if def := s.Catalog.Corgis.ByID(req.ID); def != nil {
			name = def.Name
		}
	}
	writeJSON(w, map[string]any{"applied": s.Game.SetActiveCorgi(req.ID, name)})
}

func (s *Server) handleNameCorgi(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	s.Game.SetCorgiName(req.Name)
	writeJSON(w, map[string]any{"applied": true})
}

// handleClaimAchievements grants every achievement whose condition is met.
func (s *Server) handleClaimAchievements(w http.ResponseWriter, r *http.Request) {
	granted := []string{}
	for _, id := range s.Game.PendingAchievements(s.Catalog) {
		if s.Game.UnlockAchievement(id) {
			granted = append(granted, id)
		}
	}
	writeJSON(w, map[string]any{"granted": granted})
}

// handleSetClickValue sets the base per-click yield. The presentation
// layer recomputes it from owned upgrade effects and pushes it here.
func (s *Server) handleSetClickValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value <= 0 {
		http.Error(w, "missing or invalid value", http.StatusBadRequest)
		return
	}
	s.Game.SetClickValue(req.Value)
	writeJSON(w, map[string]any{"applied": true})
}

// handlePrestige backs up the save before the reset so the player can roll
// back.
func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Saves.CreateBackup(); err != nil {
		slog.Error("pre-prestige backup failed", "error", err)
	}

	applied := s.Game.Prestige()
	if applied {
		s.Session.Flush()
	}
	st := s.Game.Snapshot()
	writeJSON(w, map[string]any{
		"applied":        applied,
		"prestige_level": st.PrestigeLevel,
		"multiplier":     st.PrestigeMultiplier,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Saves.CreateBackup(); err != nil {
		slog.Error("pre-reset backup failed", "error", err)
	}

	s.Game.ResetGame()
	s.Session.Flush()
	writeJSON(w, map[string]any{"applied": true})
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	s.Session.Flush()
	writeJSON(w, map[string]any{"flushed": true})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Saves.CreateBackup()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"created": ok})
}

// handleRestore rolls the save back to the backup slot and swaps the
// restored state into the live store.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Saves.RestoreBackup()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if ok {
		if restored, err := s.Saves.Load(); err == nil && restored != nil {
			s.Game.Replace(*restored)
		}
	}
	writeJSON(w, map[string]any{"restored": ok})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	// Flush first so the export reflects the live state.
	s.Session.Flush()

	blob, err := s.Saves.Export()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=corgi-clicker-save.json")
	w.Write(blob)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := s.Saves.Import(raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported, err := s.Saves.Load()
	if err != nil || imported == nil {
		http.Error(w, "imported save did not load", http.StatusBadRequest)
		return
	}
	s.Game.Replace(*imported)
	writeJSON(w, map[string]any{"imported": true})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
