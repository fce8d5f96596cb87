package directory

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("User not found")
	// ErrNameImmutable is returned when an update tries to change a user's name.
	ErrNameImmutable = errors.New("User name cannot be changed")
)

// User is the documented shape of a record. Records themselves are stored
// as sent, so fields may be missing, extra, or of another JSON type.
type User struct {
	ID     int    `json:"id" jsonschema:"caller-supplied identifier, not checked for uniqueness"`
	Name   string `json:"name" jsonschema:"display name, fixed once the user exists"`
	Age    int    `json:"age" jsonschema:"age in years"`
	Weight int    `json:"weight" jsonschema:"weight in kilograms"`
	Height int    `json:"height" jsonschema:"height in centimetres"`
}

// ChangeKind identifies what happened to a record.
type ChangeKind string

const (
	UserCreated ChangeKind = "user.created"
	UserUpdated ChangeKind = "user.updated"
)

// Observer is notified after every successful mutation. Changed is called
// with the directory lock held, in the order mutations are applied, so it
// must not block or call back into the Directory.
type Observer interface {
	Changed(kind ChangeKind, r Record)
}

// Seed is the record every new Directory starts with.
var Seed = User{ID: 1, Name: "John Doe", Age: 30, Weight: 75, Height: 180}

// Directory is an ordered, in-memory collection of user records. All
// methods are safe for concurrent use.
type Directory struct {
	mu       sync.RWMutex
	records  []Record
	observer Observer
}

// Option configures a Directory.
type Option func(*Directory)

// WithObserver registers o to receive change notifications.
func WithObserver(o Observer) Option {
	return func(d *Directory) { d.observer = o }
}

// New creates a Directory holding only the seed record.
func New(opts ...Option) *Directory {
	seed, err := NewRecord(Seed)
	if err != nil {
		panic(err)
	}
	d := &Directory{records: []Record{seed}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// List returns a copy of all records in insertion order.
func (d *Directory) List() []Record {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Record, len(d.records))
	for i, r := range d.records {
		out[i] = r.Clone()
	}
	return out
}

// Len reports how many records the directory holds.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// Get returns the first record whose id matches, or ErrNotFound.
func (d *Directory) Get(id int) (Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	return d.records[i].Clone(), nil
}

// Create appends r as given and returns it. Ids are neither assigned nor
// checked for collisions.
func (d *Directory) Create(r Record) Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := r.Clone()
	d.records = append(d.records, stored)
	d.notify(UserCreated, stored)
	return stored.Clone()
}

// Update shallow-merges every field of p into the first record with the
// given id. If p carries a name that differs from the stored one, null
// included, the whole update is rejected.
func (d *Directory) Update(id int, p Record) (Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}

	r := &d.records[i]
	if _, ok := p.Get("name"); ok && !r.sameField(p, "name") {
		return Record{}, ErrNameImmutable
	}
	r.merge(p)
	d.notify(UserUpdated, *r)
	return r.Clone(), nil
}

// indexOf must be called with d.mu held.
func (d *Directory) indexOf(id int) int {
	for i := range d.records {
		if d.records[i].hasID(id) {
			return i
		}
	}
	return -1
}

// notify must be called with d.mu held.
func (d *Directory) notify(kind ChangeKind, r Record) {
	if d.observer != nil {
		d.observer.Changed(kind, r.Clone())
	}
}
