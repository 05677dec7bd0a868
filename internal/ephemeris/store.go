package ephemeris

import (
	"math"
	"time"

	"github.com/mr1hm/iss-tracker/internal/models"
)

// Store is a read-only, feed-ordered view over a parsed document.
// It is safe for concurrent use once constructed.
type Store struct {
	doc *models.Document
}

// NewStore wraps doc without copying or re-sorting it. A nil doc yields an
// empty store.
func NewStore(doc *models.Document) *Store {
	if doc == nil {
		doc = models.EmptyDocument()
	}
	return &Store{doc: doc}
}

func (s *Store) Document() *models.Document {
	return s.doc
}

func (s *Store) Len() int {
	return len(s.doc.States)
}

// DefaultLimit is the limit used when a caller only supplies an offset:
// the rest of the series.
func (s *Store) DefaultLimit(offset int) int {
	return s.Len() - offset
}

// Slice returns states [offset, offset+limit). Bounds are checked in order
// offset, limit, then their sum.
func (s *Store) Slice(offset, limit int) ([]models.StateVector, error) {
	count := s.Len()
	rangeErr := func(kind RangeKind) error {
		return &RangeError{Kind: kind, Offset: offset, Limit: limit, Count: count}
	}

	if offset < 0 || offset >= count {
		return nil, rangeErr(RangeOffset)
	}
	if limit <= 0 || limit > count {
		return nil, rangeErr(RangeLimit)
	}
	if offset+limit > count {
		return nil, rangeErr(RangeCombined)
	}

	out := make([]models.StateVector, limit)
	copy(out, s.doc.States[offset:offset+limit])
	return out, nil
}

func (s *Store) FindByTimestamp(ts string) (models.StateVector, error) {
	for _, sv := range s.doc.States {
		if sv.Timestamp == ts {
			return sv, nil
		}
	}
	return models.StateVector{}, ErrNotFound
}

// FindNearest returns the state closest in time to ref. Ties go to the
// earlier entry in store order. Callers are expected to check Len first.
func (s *Store) FindNearest(ref time.Time) (models.StateVector, error) {
	if s.Len() == 0 {
		return models.StateVector{}, ErrEmptyStore
	}

	ref = ref.UTC()
	best := 0
	bestDiff := absDuration(s.doc.States[0].Epoch.Sub(ref))
	for i := 1; i < len(s.doc.States); i++ {
		diff := absDuration(s.doc.States[i].Epoch.Sub(ref))
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return s.doc.States[best], nil
}

func absDuration(d time.Duration) time.Duration {
	if d == math.MinInt64 {
		return math.MaxInt64
	}
	if d < 0 {
		return -d
	}
	return d
}
