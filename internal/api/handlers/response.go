// Package handlers общие помощники HTTP слоя: конверт ответа, декодирование тела, разбор дат.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// Response конверт всех ответов API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON отправляет успешный ответ с данными
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{Success: true, Data: data})
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	write(w, status, Response{Success: false, Error: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondConflict 409
func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondInternalError 500 без деталей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON декодирует тело запроса в v
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// instantLayouts форматы момента времени, от строгого к мягкому
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	domain.DateFormat,
}

// ParseInstant разбирает момент времени в одном из поддерживаемых форматов.
// Значения без часового пояса интерпретируются в loc.
func ParseInstant(value string, loc *time.Location) (time.Time, error) {
	value = restoreOffsetSign(strings.TrimSpace(value))
	var lastErr error
	for _, layout := range instantLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// restoreOffsetSign возвращает "+" в смещении зоны, если клиент не закодировал его
// в query string и он пришел пробелом: "2024-06-03T09:00:00 03:00".
func restoreOffsetSign(value string) string {
	if len(value) < len("2006-01-02T15:04 07:00") || value[10] != 'T' {
		return value
	}
	i := len(value) - len(" 07:00")
	if value[i] != ' ' || value[i+3] != ':' {
		return value
	}
	for _, c := range value[i+1:i+3] + value[i+4:] {
		if c < '0' || c > '9' {
			return value
		}
	}
	return value[:i] + "+" + value[i+1:]
}

// ParseOptionalInstant как ParseInstant, но пустое или некорректное значение дает nil
func ParseOptionalInstant(value string, loc *time.Location) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, err := ParseInstant(value, loc)
	if err != nil {
		return nil
	}
	return &t
}

// ParseDay разбирает календарный день YYYY-MM-DD
func ParseDay(value string) (time.Time, error) {
	return time.Parse(domain.DateFormat, strings.TrimSpace(value))
}
