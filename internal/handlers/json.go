package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"Cestas/internal/common"
	"Cestas/internal/models"

	"github.com/go-chi/chi/v5"
)

const (
	msgNoData   = "Nenhum dado enviado."
	msgBadData  = "Dados inválidos."
	msgInternal = "Erro interno do servidor."

	maxBodyBytes = 1 << 20
)

// jsonError — единый формат ошибки. Ключ "error" читает старый фронт.
func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"status":  "error",
		"message": msg,
		"error":   msg,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// created — ответ 201 на создание записи.
func created(w http.ResponseWriter, msg string, id int64) {
	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": msg,
		"id":      id,
	})
}

var (
	errNoData  = errors.New("empty body")
	errBadData = errors.New("malformed body")
)

// decodeJSON читает тело запроса в dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return errNoData
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", errBadData, err)
	}
	return nil
}

// fail переводит ошибку в ответ. Неизвестные ошибки — 500 и запись в лог.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, errNoData):
		jsonError(w, http.StatusBadRequest, msgNoData)
	case errors.Is(err, errBadData):
		jsonError(w, http.StatusBadRequest, msgBadData)
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrReferenceNotFound):
		jsonError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, common.ErrAlreadyExists):
		jsonError(w, http.StatusConflict, "Registro já existe.")
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		jsonError(w, http.StatusInternalServerError, msgInternal)
	}
}

// idParam — положительный целый параметр маршрута chi.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
