package wherelib

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxSubmitBodySize limits a size of POST /submit body.
const maxSubmitBodySize = 1 << 20

type httpHandler struct {
	app *Whereabouts
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	h.encodeJSON(w, data)
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	h.sendJSON(w, e, e.StatusCode())
}

func newHTTPHandler(app *Whereabouts) http.Handler {
	handler := httpHandler{
		app: app,
	}
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, "Not found", http.StatusNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handler.sendError(w, nil, "This HTTP method is not allowed", http.StatusMethodNotAllowed)
	})

	router.Get("/", handler.handleIndex)
	router.Post("/submit", handler.handleSubmit)
	router.Get("/records", handler.handleRecords)
	router.Get("/stats", handler.handleStats)
	router.Handle("/static/*", handler.staticFiles())

	return router
}
