package domain

import (
	"encoding/json"
	"fmt"

	apperrors "elearn/internal/platform/errors"
)

// GradeItem is one entry of the grades/values endpoint.
type GradeItem struct {
	GradeObjectName   *string  `json:"GradeObjectName"`
	PointsNumerator   *float64 `json:"PointsNumerator"`
	PointsDenominator *float64 `json:"PointsDenominator"`
	LastModified      *string  `json:"LastModified"`
}

// CalendarEvent is one entry of the calendar/events endpoint.
type CalendarEvent struct {
	Title       *string `json:"Title"`
	EndDateTime *string `json:"EndDateTime"`
}

// DecodeGradeItems decodes a JSON array, dropping elements that do not match
// the item shape. It returns the number of dropped elements.
func DecodeGradeItems(payload []byte) ([]GradeItem, int, error) {
	return decodeEach[GradeItem](payload)
}

func DecodeCalendarEvents(payload []byte) ([]CalendarEvent, int, error) {
	return decodeEach[CalendarEvent](payload)
}

func decodeEach[T any](payload []byte) ([]T, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: decode array: %v", apperrors.ErrParse, err)
	}
	out := make([]T, 0, len(raw))
	dropped := 0
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped, nil
}
