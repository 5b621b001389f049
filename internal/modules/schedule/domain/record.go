package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "elearn/internal/platform/errors"
)

// SortMode selects which Record field orders a Store.
type SortMode int

const (
	SortByTimestamp SortMode = iota
	SortByGrade
)

func (m SortMode) String() string {
	switch m {
	case SortByGrade:
		return "grade"
	default:
		return "date"
	}
}

func ParseSortMode(v string) (SortMode, error) {
	switch v {
	case "grade", "":
		return SortByGrade, nil
	case "date":
		return SortByTimestamp, nil
	default:
		return 0, fmt.Errorf("%w: unsupported sort %q", apperrors.ErrInvalidInput, v)
	}
}

// Record is one dated entry. Timestamp is the due date, graded date or event
// end; Grade is the fixed-point grade key; Submitted is the submission time.
// All instants are epoch milliseconds.
type Record struct {
	Title     string
	Timestamp *int64
	Grade     *int64
	Submitted *int64
}

// Key returns the field that orders the record under mode.
func (r Record) Key(mode SortMode) *int64 {
	if mode == SortByGrade {
		return r.Grade
	}
	return r.Timestamp
}

// Secondary returns the value shown next to the key column.
func (r Record) Secondary(mode SortMode) *int64 {
	if mode == SortByGrade {
		return r.Timestamp
	}
	if r.Grade != nil {
		return r.Grade
	}
	return r.Submitted
}

type Bucket struct {
	Key     int64
	Records []Record
}

// Window is an inclusive epoch-millisecond range; Max == 0 is unbounded.
type Window struct {
	Min int64
	Max int64
}

// Unbounded admits every key, including negative grades and pre-1970 dates.
var Unbounded = Window{Min: math.MinInt64}

func (w Window) Contains(epoch int64) bool {
	return epoch >= w.Min && (w.Max == 0 || epoch <= w.Max)
}

type Preset string

const (
	PresetToday Preset = "today"
	PresetWeek  Preset = "week"
	PresetMonth Preset = "month"
	PresetAll   Preset = "all"
)

const day = 24 * time.Hour

var presetSpan = map[Preset]time.Duration{
	PresetToday: day,
	PresetWeek:  7 * day,
	PresetMonth: 31 * day,
	PresetAll:   0,
}

func (p Preset) Validate() error {
	if _, ok := presetSpan[p]; !ok {
		return fmt.Errorf("%w: unsupported window %q", apperrors.ErrInvalidInput, string(p))
	}
	return nil
}

// Label is the heading used when rendering a window.
func (p Preset) Label() string {
	switch p {
	case PresetToday:
		return "Today"
	case PresetWeek:
		return "This Week"
	case PresetMonth:
		return "This Month"
	default:
		return "All Upcoming"
	}
}

// WindowFor starts at now and spans the preset; PresetAll is unbounded.
func WindowFor(p Preset, now time.Time) (Window, error) {
	if err := p.Validate(); err != nil {
		return Window{}, err
	}
	start := now.UnixMilli()
	span := presetSpan[p]
	if span == 0 {
		return Window{Min: start}, nil
	}
	return Window{Min: start, Max: start + span.Milliseconds()}, nil
}

// CourseRef names one course a schedule is gathered from.
type CourseRef struct {
	ID   string
	Name string
}
