package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TayDa64/CryptoEmpire/internal/config"
	"github.com/TayDa64/CryptoEmpire/internal/game"
	"github.com/TayDa64/CryptoEmpire/internal/history"
)

// Server is the presentation boundary: it exposes the game's inbound
// operations and re-publishes a fresh state snapshot after every commit.
type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	game *game.Service
	hist *history.Recorder
	mux  *chi.Mux

	// subscribeDelay simulates network latency on the email form; tests
	// shrink it.
	subscribeDelay time.Duration
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service, hist *history.Recorder) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:            cfg,
		log:            logger,
		game:           gameSvc,
		hist:           hist,
		mux:            chi.NewRouter(),
		subscribeDelay: time.Second,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/assets/{id}", s.handleAssetDetail)
		r.Post("/location", s.handleSelectLocation)
		r.Post("/asset/select", s.handleSelectAsset)
		r.Post("/trade/quantity", s.handleSetQuantity)
		r.Post("/trade", s.handleTrade)
		r.Post("/craft", s.handleCraft)
		r.Post("/mining/start", s.handleStartMining)

		// Standalone email capture; independent of the simulation state.
		r.Post("/subscribe", s.handleSubscribe)
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleAssetDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := s.game.Snapshot()
	var found *game.Asset
	for i := range snap.Assets {
		if snap.Assets[i].ID == id {
			found = &snap.Assets[i]
			break
		}
	}
	if found == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	series, err := s.hist.Recent(r.Context(), id, 64)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"asset":  found,
		"series": series,
	})
}

func (s *Server) handleSelectLocation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.SelectLocation(strings.TrimSpace(in.ID)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleSelectAsset(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.SelectAsset(strings.TrimSpace(in.ID)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.game.SetTradeQuantity(in.Quantity)
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Side string `json:"side"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	side := strings.ToLower(strings.TrimSpace(in.Side))
	if side != "buy" && side != "sell" {
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}
	if err := s.game.Trade(side == "buy"); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleCraft(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AssetID string `json:"asset_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.Craft(strings.TrimSpace(in.AssetID)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleStartMining(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AssetID string `json:"asset_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.game.StartMining(strings.TrimSpace(in.AssetID)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := r.PostFormValue("email")

	select {
	case <-r.Context().Done():
		return
	case <-time.After(s.subscribeDelay):
	}

	if email == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Email is required",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Email %s submitted successfully!", email),
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownAsset), errors.Is(err, game.ErrUnknownLocation):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientInventory),
		errors.Is(err, game.ErrMissingIngredients),
		errors.Is(err, game.ErrInvalidQuantity),
		errors.Is(err, game.ErrNoAssetSelected),
		errors.Is(err, game.ErrNotCraftable),
		errors.Is(err, game.ErrInvalidMiningTarget):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
