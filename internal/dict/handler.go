package dict

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Handler serves the lookup API over the word store. Unknown words get an
// empty JSON object with status 200, matching what Client expects.
func Handler(store *Store) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Get("/lookup/{word}", func(w http.ResponseWriter, req *http.Request) {
		word := chi.URLParam(req, "word")
		entry, err := store.Lookup(req.Context(), word)
		if err != nil {
			log.Error().Err(err).Str("word", word).Msg("lookup failed")
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entry)
	})

	r.Get("/random", func(w http.ResponseWriter, req *http.Request) {
		entry, err := store.Random(req.Context())
		if err != nil {
			log.Error().Err(err).Msg("random lookup failed")
			http.Error(w, "lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entry)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
