package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout — формат дат во входящих запросах (input type=date).
	DateLayout = "2006-01-02"
	// DisplayDateLayout — формат дат в ответах.
	DisplayDateLayout = "02/01/2006"
)

// FlexInt принимает и число, и строку с числом: фронт шлёт
// Object.fromEntries(FormData), где всё — строки.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s, err := unquoteNumber(b)
	if err != nil || s == "" {
		*n = 0
		return err
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = FlexInt(v)
	return nil
}

// FlexFloat — то же для дробных количеств (кг, литры). Запятая тоже допустима.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s, err := unquoteNumber(b)
	if err != nil || s == "" {
		*f = 0
		return err
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

func unquoteNumber(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(b), nil
}

// MaxCount — предел колонок INTEGER (количества, число людей).
const MaxCount = math.MaxInt32

// FormatDate — дата для ответа; нулевое время → "—".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(DisplayDateLayout)
}

// ValidationError — ошибка во входных данных. Message отдаётся клиенту как есть.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missing(field string) error {
	return &ValidationError{Field: field, Message: "Campo obrigatório: " + field}
}

func outOfRange(field string) error {
	return &ValidationError{Field: field, Message: field + " fora do intervalo permitido"}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
