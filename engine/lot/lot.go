// Package lot holds a set of cars in memory and runs queries over them.
package lot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/pkg/fn"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no car has the requested ID.
var ErrNotFound = errors.New("car not found")

// Store persists a snapshot of each car added to the lot.
type Store interface {
	SaveCar(ctx context.Context, id string, snap car.Snapshot) error
}

// Entry is a car together with its lot ID.
type Entry struct {
	ID  string   `json:"id"`
	Car *car.Car `json:"car"`
}

// Lot is a goroutine-safe, insertion-ordered set of cars keyed by ID.
type Lot struct {
	mu    sync.RWMutex
	order []string
	cars  map[string]*car.Car

	store Store
	log   *slog.Logger
}

// Option configures a Lot.
type Option func(*Lot)

// WithStore persists every added car to s.
func WithStore(s Store) Option {
	return func(l *Lot) { l.store = s }
}

// WithLogger sets the lot's logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Lot) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates an empty Lot.
func New(opts ...Option) *Lot {
	l := &Lot{
		cars: make(map[string]*car.Car),
		log:  slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Add stores c under a new ID. When a Store is configured the car is
// saved there first; a store failure leaves the lot unchanged.
func (l *Lot) Add(ctx context.Context, c *car.Car) (string, error) {
	id := uuid.NewString()
	if l.store != nil {
		if err := l.store.SaveCar(ctx, id, c.Snapshot()); err != nil {
			return "", fmt.Errorf("lot: add: %w", err)
		}
	}

	l.mu.Lock()
	l.cars[id] = c
	l.order = append(l.order, id)
	l.mu.Unlock()

	l.log.Debug("car added", "id", id, "car", c.Description())
	return id, nil
}

// Get returns the car stored under id.
func (l *Lot) Get(id string) (*car.Car, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.cars[id]
	if !ok {
		return nil, fmt.Errorf("lot: %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// List returns all entries in insertion order.
func (l *Lot) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn.Map(l.order, func(id string) Entry { return Entry{ID: id, Car: l.cars[id]} })
}

// Cars returns all cars in insertion order.
func (l *Lot) Cars() []*car.Car {
	return fn.Map(l.List(), func(e Entry) *car.Car { return e.Car })
}

// Len returns the number of cars in the lot.
func (l *Lot) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// CountByMake returns how many cars of each make the lot holds.
func (l *Lot) CountByMake() map[car.Make]int {
	groups := fn.GroupBy(l.Cars(), func(c *car.Car) car.Make { return c.Make() })
	out := make(map[car.Make]int, len(groups))
	for mk, cars := range groups {
		out[mk] = len(cars)
	}
	return out
}
