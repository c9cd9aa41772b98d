package domain

import "errors"

// ErrNotFound is returned by lookups that fail to resolve a building
// through any key form or through the spatial index.
var ErrNotFound = errors.New("could not find building with this key")

// RGB is a display color derived from the energy payload.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// DefaultColor is used when a record carries no parseable color token.
var DefaultColor = RGB{R: 128, G: 128, B: 128}

// Point is a footprint vertex. Z is carried through from the source
// geometry but only X/Y participate in containment tests.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Entity is one building as held by the cache. PrimaryKey is never
// empty; records without one are dropped during ingestion.
type Entity struct {
	PrimaryKey   string
	SecondaryKey string
	Snapshot     string
	Energy       float64
	HasEnergy    bool
	Color        RGB
	ColorToken   string
	Footprint    []Point
}

// ChangeKind classifies the result of comparing one incoming record
// against the previous snapshot for the same canonical key.
type ChangeKind string

const (
	ChangeNew       ChangeKind = "new"
	ChangeAttribute ChangeKind = "attribute_changed"
	ChangeColor     ChangeKind = "color_changed"
	ChangeUnchanged ChangeKind = "unchanged"
	ChangeRemoved   ChangeKind = "removed"
)

// ChangeRecord is produced fresh on every diff cycle and never outlives
// the cycle that created it.
type ChangeRecord struct {
	Key              string
	Kind             ChangeKind
	PreviousSnapshot string
}
