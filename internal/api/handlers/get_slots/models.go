package get_slots

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

// Query параметры запроса
const (
	paramSlotID         = "slotId"
	paramFrom           = "from"
	paramTo             = "to"
	paramVeterinarianID = "veterinarianId"
	paramPractitionerID = "practitionerId"
	paramOnlyAvailable  = "onlyAvailable"
	paramLimit          = "limit"
	paramOffset         = "offset"
)

// parseOnlyAvailable true, кроме явных "0" и "false"
func parseOnlyAvailable(q url.Values) bool {
	v := strings.ToLower(strings.TrimSpace(q.Get(paramOnlyAvailable)))
	return v != "0" && v != "false"
}

// parsePractitionerID читает veterinarianId, затем practitionerId.
// ok=false, если значение передано, но не является положительным числом.
func parsePractitionerID(q url.Values) (*int64, bool) {
	raw := q.Get(paramVeterinarianID)
	if raw == "" {
		raw = q.Get(paramPractitionerID)
	}
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

// parseInt возвращает 0 для пустого или некорректного значения; сервис сам подставит значения по умолчанию
func parseInt(q url.Values, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0
	}
	return v
}

// ToServiceRequest собирает запрос сервиса из query параметров.
// Некорректные from/to считаются незаданными.
func ToServiceRequest(q url.Values, practitionerID *int64, loc *time.Location) *models.ListRequest {
	onlyAvailable := parseOnlyAvailable(q)
	return &models.ListRequest{
		From:           handlers.ParseOptionalInstant(q.Get(paramFrom), loc),
		To:             handlers.ParseOptionalInstant(q.Get(paramTo), loc),
		PractitionerID: practitionerID,
		OnlyAvailable:  &onlyAvailable,
		Limit:          parseInt(q, paramLimit),
		Offset:         parseInt(q, paramOffset),
	}
}
