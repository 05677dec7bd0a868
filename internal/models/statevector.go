package models

import "time"

// EpochLayout parses the feed's ordinal-date epochs, e.g. 2024-055T18:32:00.000Z.
// Fractional seconds of any precision are accepted when parsing.
const EpochLayout = "2006-002T15:04:05Z"

type Position struct {
	X float64 `json:"x"` // km, J2000
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Velocity struct {
	XDot float64 `json:"x_dot"` // km/s, J2000
	YDot float64 `json:"y_dot"`
	ZDot float64 `json:"z_dot"`
}

type StateVector struct {
	Timestamp string    `json:"timestamp"` // verbatim EPOCH from the feed
	Epoch     time.Time `json:"-"`         // Timestamp parsed as UTC
	Position  Position  `json:"position"`
	Velocity  Velocity  `json:"velocity"`
}

// Fields holds passthrough header/metadata values keyed by element name.
// A name that repeats maps to a []string, otherwise to a string.
type Fields map[string]any

// Add records value under key, promoting the entry to a list on repeats.
func (f Fields) Add(key, value string) {
	switch existing := f[key].(type) {
	case nil:
		f[key] = value
	case string:
		f[key] = []string{existing, value}
	case []string:
		f[key] = append(existing, value)
	}
}

// Document is the parsed ephemeris feed. It is never mutated after parsing.
type Document struct {
	Comments []string
	Header   Fields
	Metadata Fields
	States   []StateVector
}

// EmptyDocument is what the service runs on when ingestion fails.
func EmptyDocument() *Document {
	return &Document{
		Comments: []string{},
		Header:   Fields{},
		Metadata: Fields{},
		States:   []StateVector{},
	}
}
