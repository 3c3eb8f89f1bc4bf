package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"Cestas/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// readLogin принимает JSON или обычную форму. ok == false — данных нет вовсе.
func readLogin(w http.ResponseWriter, r *http.Request) (loginRequest, bool) {
	var in loginRequest

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return in, false
		}
		if len(r.PostForm) == 0 {
			return in, false
		}
		in.Username = r.PostForm.Get("username")
		in.Email = r.PostForm.Get("email")
		in.Password = r.PostForm.Get("password")
		return in, true
	default:
		var raw map[string]json.RawMessage
		if err := decodeJSON(w, r, &raw); err != nil || len(raw) == 0 {
			return in, false
		}
		// нестроковые значения считаем отсутствующими
		str := func(k string) string {
			var s string
			_ = json.Unmarshal(raw[k], &s)
			return s
		}
		in.Username, in.Email, in.Password = str("username"), str("email"), str("password")
		return in, true
	}
}

// Login — POST /login, /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	in, ok := readLogin(w, r)
	if !ok {
		jsonError(w, http.StatusBadRequest, msgNoData)
		return
	}

	identifier := in.Username
	if strings.TrimSpace(identifier) == "" {
		identifier = in.Email
	}

	p, err := h.auth.Login(r.Context(), identifier, in.Password)
	if err != nil {
		jsonError(w, auth.HTTPStatus(err), auth.Message(err))
		return
	}

	issued, err := h.backend.Issue(w, r, p)
	if err != nil {
		h.log.Error(r.Context(), "issue auth context", "username", p.Name, "err", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	resp := map[string]any{
		"status":  "success",
		"message": "Login bem-sucedido!",
		"user": userResponse{
			ID:   issued.Principal.UserID,
			Name: issued.Principal.Name,
			Role: issued.Principal.Role,
		},
		"expires_at": issued.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if issued.Token != "" {
		resp["token"] = issued.Token
		resp["token_type"] = issued.TokenType
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout — POST /logout, /api/logout. Всегда 200.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Revoke(w, r); err != nil {
		h.log.Warn(r.Context(), "revoke session", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logout realizado.",
	})
}

// Me — GET /api/me: кто вошёл.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		jsonError(w, auth.HTTPStatus(auth.ErrUnauthenticated), auth.Message(auth.ErrUnauthenticated))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{
			ID:   p.UserID,
			Name: p.Name,
			Role: p.Role,
		},
		"method":     p.Method,
		"expires_at": p.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
