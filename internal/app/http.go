package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/store"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

type notificationView struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	CreatedAt time.Time `json:"created_at"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	Delivered bool      `json:"delivered"`
	FromDate  int64     `json:"from_date"`
}

// NewRouter serves /healthz and the recent notification journal.
func NewRouter(journal store.Journal, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/notifications", func(w http.ResponseWriter, req *http.Request) {
		limit := defaultRecentLimit
		if s := req.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxRecentLimit)
		}

		entries, err := journal.Recent(req.Context(), limit)
		if err != nil {
			log.Error("read journal failed", zap.Error(err))
			http.Error(w, "journal unavailable", http.StatusInternalServerError)
			return
		}

		views := make([]notificationView, 0, len(entries))
		for _, e := range entries {
			views = append(views, notificationView(e))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(views)
	})

	return r
}
