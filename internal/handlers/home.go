package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dailyshapes/internal/game"
	"dailyshapes/internal/mechanic"
	"dailyshapes/internal/viewmodel"
	"dailyshapes/pkg/realtime"
	"dailyshapes/views/pages"
)

const siteTitle = "Daily Shapes"

type HomeHandler struct {
	store *game.Store
	log   *slog.Logger
}

func NewHomeHandler(store *game.Store, log *slog.Logger) *HomeHandler {
	return &HomeHandler{store: store, log: log}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/", h.home)
		r.Post("/games", h.createGame)
	})
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	today, key := h.store.Today(now)
	sched := h.store.Schedule(now)
	data := viewmodel.HomePage{
		Title:        siteTitle,
		DayKey:       key,
		TodayTitle:   today.Title(),
		TodayHint:    today.Hint(),
		Countdown:    realtime.FormatCountdown(sched.Remaining(now)),
		NextPuzzleMs: sched.Next().UnixMilli(),
		Variants:     variantOptions(today),
	}
	render(w, r, pages.HomePage(data))
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	mode := mechanic.Mode(r.FormValue("mode"))
	if mode == "" {
		mode = mechanic.ModeDaily
	}
	if mode != mechanic.ModeDaily && mode != mechanic.ModePractice {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	var variant *mechanic.Variant
	if raw := r.FormValue("variant"); raw != "" && mode == mechanic.ModePractice {
		v, err := mechanic.ParseVariant(raw)
		if err != nil {
			http.Error(w, "unknown mechanic", http.StatusBadRequest)
			return
		}
		variant = &v
	}

	playerID := ensurePlayerID(w, r)
	instance, err := h.store.CreateGame(mode, playerID, variant, time.Now())
	if err != nil {
		h.log.Error("create game", "error", err, "mode", string(mode))
		http.Error(w, "could not create game", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+instance.ID+"/", http.StatusSeeOther)
}

func variantOptions(selected mechanic.Variant) []viewmodel.VariantOption {
	all := mechanic.Variants()
	out := make([]viewmodel.VariantOption, 0, len(all))
	for _, v := range all {
		out = append(out, viewmodel.VariantOption{
			Value:    v.String(),
			Title:    v.Title(),
			Selected: v == selected,
		})
	}
	return out
}
