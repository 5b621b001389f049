package timecodec

import (
	"fmt"
	"time"
	"unicode/utf8"

	apperrors "elearn/internal/platform/errors"
)

const (
	// LayoutISO matches LastModified, EndDateTime and submission dates.
	LayoutISO = "2006-01-02T15:04:05"
	// LayoutDue matches the timestamp assembled from a dueDate record.
	LayoutDue = "01/02/2006 15:04:05"
	// LayoutDisplay is used for every key column.
	LayoutDisplay = "Jan 02 2006 15:04:05"
	// LayoutShort is used for submission times.
	LayoutShort = "01/02/2006 15:04:05"

	NotAvailable = "N/A"
)

// Codec converts between formatted timestamps and epoch milliseconds.
type Codec struct {
	display *time.Location
	api     *time.Location
}

// New returns a codec that renders in display and reads unqualified API
// timestamps in api. Nil locations mean time.Local.
func New(display, api *time.Location) Codec {
	if display == nil {
		display = time.Local
	}
	if api == nil {
		api = time.Local
	}
	return Codec{display: display, api: api}
}

// Parse reads value with layout. bypassTimezoneConversion reads the value as
// display-zone wall time; otherwise the API zone is used. Text after a
// fixed-width layout (fractional seconds, a trailing Z) is ignored.
func (c Codec) Parse(value, layout string, bypassTimezoneConversion bool) (int64, error) {
	loc := c.api
	if bypassTimezoneConversion {
		loc = c.display
	}
	if len(value) > len(layout) && asciiPrefix(value, len(layout)) {
		value = value[:len(layout)]
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to determine epoch timestamp for %q: %v", apperrors.ErrParse, value, err)
	}
	return t.UnixMilli(), nil
}

// asciiPrefix reports whether the first n bytes of value are single-byte
// runes, so cutting at n cannot split a character.
func asciiPrefix(value string, n int) bool {
	for i := 0; i < n; i++ {
		if value[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Format renders epoch milliseconds with LayoutDisplay, or N/A for nil.
func (c Codec) Format(epoch *int64) string {
	return c.render(epoch, LayoutDisplay)
}

// FormatShort renders epoch milliseconds with LayoutShort, or N/A for nil.
func (c Codec) FormatShort(epoch *int64) string {
	return c.render(epoch, LayoutShort)
}

func (c Codec) Time(epoch int64) time.Time {
	return time.UnixMilli(epoch).In(c.display)
}

func (c Codec) render(epoch *int64, layout string) string {
	if epoch == nil {
		return NotAvailable
	}
	return c.Time(*epoch).Format(layout)
}
