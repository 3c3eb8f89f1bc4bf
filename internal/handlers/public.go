package handlers

import (
	"net/http"
	"path"
)

/* ========= СТРАНИЦЫ И СТАТИКА ========= */

// Index — страница входа.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "/login.html")
}

// App — само приложение, только после входа (guard.PageRequired).
func (h *Handler) App(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "/index.html")
}

// Static отдаёт /css/*, /js/*, /static/* из каталога WEB_DIR. Каталоги не листаются.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, path.Clean("/"+r.URL.Path))
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := h.web.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}
