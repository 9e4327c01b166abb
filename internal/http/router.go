package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	ingestHandler "github.com/openimpactlab/impactboard/internal/http/ingest"
	reportHandler "github.com/openimpactlab/impactboard/internal/http/report"
	"github.com/openimpactlab/impactboard/internal/http/respond"
)

func New(
	db *sql.DB,
	reportV1 *reportHandler.Handler,
	ingestV1 *ingestHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// The dashboard frontend is served from a different origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "Server is running",
		})
	})

	router.Get("/db-test", func(w http.ResponseWriter, r *http.Request) {
		var now string
		if err := db.QueryRowContext(r.Context(), "SELECT NOW()").Scan(&now); err != nil {
			respond.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"time":    now,
		})
	})

	reportV1.Routes(router)
	ingestV1.Routes(router)

	return router
}
