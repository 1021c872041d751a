// Package storage is the in-memory state behind the development backend.
package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mediashelf/mediashelf/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when an id does not exist
var ErrNotFound = errors.New("not found")

// RuleError is a request the store refuses, such as a duplicate value
type RuleError struct {
	Detail string
}

func (e *RuleError) Error() string {
	return e.Detail
}

func refuse(detail string) error {
	return &RuleError{Detail: detail}
}

// IsRule returns true if err is a refused request
func IsRule(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

// Patch is one optional field of a partial update. Set is true when the
// key was present in the request body, even if its value was null.
type Patch[T any] struct {
	Set   bool
	Value T
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Set = true
	return json.Unmarshal(data, &p.Value)
}

// Set returns a patch carrying v
func Set[T any](v T) Patch[T] {
	return Patch[T]{Set: true, Value: v}
}

type mediaRecord struct {
	id         int64
	title      string
	categoryID int64
	status     models.Status
	rating     *models.Grade
	notes      *string
	cover      *string
	metadata   models.Metadata
	tagIDs     []int64
	createdAt  time.Time
	updatedAt  time.Time
}

// Store holds every collection in memory behind a single lock
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	media       map[int64]*mediaRecord
	categories  map[int64]*models.Category
	tags        map[int64]*models.Tag
	fieldValues map[int64]*models.FieldValue
	nextID      map[string]int64
	fold        cases.Caser
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, for tests that depend on ordering
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithoutSeeds starts with no categories or vocabularies
func WithoutSeeds() Option {
	return func(s *Store) {
		s.categories = map[int64]*models.Category{}
		s.fieldValues = map[int64]*models.FieldValue{}
	}
}

// New creates a store seeded with the built-in categories and vocabularies
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		media:  map[int64]*mediaRecord{},
		tags:   map[int64]*models.Tag{},
		nextID: map[string]int64{},
		fold:   cases.Fold(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.categories == nil {
		s.categories = map[int64]*models.Category{}
		s.fieldValues = map[int64]*models.FieldValue{}
		s.seed()
	}
	return s
}

func (s *Store) id(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

// key normalises text for caseless comparison
func (s *Store) key(v string) string {
	return s.fold.String(norm.NFC.String(strings.TrimSpace(v)))
}
