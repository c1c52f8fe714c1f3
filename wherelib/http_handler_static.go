package wherelib

import (
	"net/http"

	"github.com/spf13/afero"
)

const indexFileName = "/index.html"

func (h httpHandler) handleIndex(w http.ResponseWriter, req *http.Request) {
	file, err := h.app.staticFs.Open(indexFileName)
	if err != nil {
		h.sendError(w, err, "index.html is not found", http.StatusNotFound)

		return
	}

	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		h.sendError(w, err, "index.html is not found", http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, req, stat.Name(), stat.ModTime(), file)
}

func (h httpHandler) staticFiles() http.Handler {
	return http.StripPrefix("/static/",
		http.FileServer(afero.NewHttpFs(h.app.staticFs)))
}
