package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IceBath is one logged ice-swimming session.
//
// All numeric measurements are pointers: nil means "not recorded", which is
// distinct from zero. The backend owns validation; the client only holds
// transient copies for display and editing.
type IceBath struct {
	ID               int64     `json:"avanto_id"`
	UserID           uuid.UUID `json:"user_id"`
	Date             string    `json:"date"` // YYYY-MM-DD
	Location         string    `json:"location"`
	WaterTemperature *float64  `json:"water_temperature"`
	AirTemperature   *float64  `json:"air_temperature,omitempty"`
	DurationMinutes  *int      `json:"duration_minutes"`
	DurationSeconds  *int      `json:"duration_seconds"`
	FeelingBefore    *int      `json:"feeling_before"`
	FeelingAfter     *int      `json:"feeling_after"`
	SwearWords       *int      `json:"swear_words"`
	Sauna            *bool     `json:"sauna"`
	SaunaDuration    *int      `json:"sauna_duration"`
}

// UnmarshalJSON tolerates the ID shapes the backend has emitted over time:
// avanto_id arrives as a number or a numeric string, user_id as a UUID string
// or a legacy numeric id. Legacy numeric user ids carry no meaning
// client-side and decode to the zero UUID.
func (b *IceBath) UnmarshalJSON(data []byte) error {
	type plain IceBath
	aux := struct {
		ID     json.RawMessage `json:"avanto_id"`
		UserID json.RawMessage `json:"user_id"`
		*plain
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := parseRecordID(aux.ID)
	if err != nil {
		return fmt.Errorf("avanto_id: %w", err)
	}
	b.ID = id
	b.UserID = parseUserID(aux.UserID)
	return nil
}

func parseRecordID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	return strconv.ParseInt(strings.Trim(s, `"`), 10, 64)
}

func parseUserID(raw json.RawMessage) uuid.UUID {
	s := strings.TrimSpace(string(raw))
	if len(s) < 2 || s[0] != '"' {
		return uuid.Nil
	}
	id, err := uuid.Parse(strings.Trim(s, `"`))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ParseDate parses the record's date field. The backend sends plain
// YYYY-MM-DD dates, but full RFC 3339 timestamps are accepted too.
func (b IceBath) ParseDate() (time.Time, error) {
	if t, err := time.Parse("2006-01-02", b.Date); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, b.Date)
}

// PageMeta is the pagination metadata returned with every list response.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// IceBathPage is one page of records. Pages are never merged client-side;
// every fetch replaces the previous one.
type IceBathPage struct {
	Items []IceBath
	Meta  PageMeta
}
