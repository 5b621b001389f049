package domain

import (
	"slices"

	"elearn/internal/platform/timecodec"
)

// Store is an ordered multi-map from sort key to records. Every key it holds
// lies inside its window; records under one key keep insertion order.
type Store struct {
	window  Window
	mode    SortMode
	codec   timecodec.Codec
	keys    []int64
	index   map[int64][]Record
	skipped int
}

func NewStore(window Window, mode SortMode, codec timecodec.Codec) *Store {
	return &Store{
		window: window,
		mode:   mode,
		codec:  codec,
		index:  map[int64][]Record{},
	}
}

func (s *Store) Window() Window { return s.window }
func (s *Store) Mode() SortMode { return s.mode }

// Len is the number of records across all keys.
func (s *Store) Len() int {
	n := 0
	for _, list := range s.index {
		n += len(list)
	}
	return n
}

func (s *Store) Empty() bool { return len(s.keys) == 0 }

// Skipped counts items dropped for missing fields or unparsable timestamps.
func (s *Store) Skipped() int { return s.skipped }

// Buckets returns the records grouped by key in ascending key order.
func (s *Store) Buckets() []Bucket {
	out := make([]Bucket, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Bucket{Key: k, Records: slices.Clone(s.index[k])})
	}
	return out
}

// Add appends r under its key for the store's sort mode. Records without a key
// or with a key outside the window are rejected.
func (s *Store) Add(r Record) bool {
	key := r.Key(s.mode)
	if key == nil || !s.window.Contains(*key) {
		return false
	}
	list, ok := s.index[*key]
	if !ok {
		i, _ := slices.BinarySearch(s.keys, *key)
		s.keys = slices.Insert(s.keys, i, *key)
	}
	s.index[*key] = append(list, r)
	return true
}

// AddDeadlines walks a due-tree and records every due item inside the window
// together with the first submission found beneath it.
func (s *Store) AddDeadlines(root *Node) {
	if root == nil {
		return
	}
	s.addDeadline(root)
}

func (s *Store) addDeadline(n *Node) {
	s.skipped += n.Malformed
	switch {
	case n.Incomplete:
		s.skipped++
	case n.Due != nil:
		s.ingestDue(n)
	}
	// due items are spread over nested collections, so every child is visited
	for i := range n.Children {
		s.addDeadline(&n.Children[i])
	}
}

func (s *Store) ingestDue(n *Node) {
	due, err := s.codec.Parse(n.Due.Date.Timestamp(), timecodec.LayoutDue, true)
	if err != nil {
		s.skipped++
		return
	}
	if !s.window.Contains(due) {
		return
	}
	record := Record{Title: n.Due.Title, Timestamp: &due}
	if marker := n.FirstSubmission(); marker != nil {
		if submitted, err := s.codec.Parse(marker.Date, timecodec.LayoutISO, false); err == nil {
			record.Submitted = &submitted
		}
	}
	s.Add(record)
}

// AddGrades records every complete grade item. The store's sort mode decides
// whether the grade or the graded date is the key.
func (s *Store) AddGrades(items []GradeItem) {
	for _, item := range items {
		if item.GradeObjectName == nil || item.PointsNumerator == nil || item.PointsDenominator == nil || item.LastModified == nil {
			s.skipped++
			continue
		}
		graded, err := s.codec.Parse(*item.LastModified, timecodec.LayoutISO, false)
		if err != nil {
			s.skipped++
			continue
		}
		grade, err := EncodeGrade(*item.PointsNumerator, *item.PointsDenominator)
		if err != nil {
			s.skipped++
			continue
		}
		s.Add(Record{Title: *item.GradeObjectName, Timestamp: &graded, Grade: &grade})
	}
}

// AddCalendarEvents records every event whose end time falls in the window.
func (s *Store) AddCalendarEvents(items []CalendarEvent) {
	for _, item := range items {
		if item.EndDateTime == nil {
			continue
		}
		if item.Title == nil {
			s.skipped++
			continue
		}
		end, err := s.codec.Parse(*item.EndDateTime, timecodec.LayoutISO, false)
		if err != nil {
			s.skipped++
			continue
		}
		s.Add(Record{Title: *item.Title, Timestamp: &end})
	}
}
