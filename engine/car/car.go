// Package car defines the Car value object: a validated vehicle record whose
// identity fields are fixed at construction and whose only mutable state is
// its fuel level.
package car

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Car is a vehicle. All fields are unexported; the fuel level changes only
// through Drive and FillUp. A Car must not be copied after construction.
type Car struct {
	color string
	make  Make
	model string
	year  int
	turbo bool

	mu  sync.Mutex
	gas int

	log      *slog.Logger
	observer Observer
	now      func() time.Time
}

// Option configures a Car at construction.
type Option func(*Car)

// WithTurbo sets the turbo flag. Cars are built without turbo by default.
func WithTurbo(turbo bool) Option {
	return func(c *Car) { c.turbo = turbo }
}

// WithLogger sets the logger that receives drive and beep lines.
func WithLogger(log *slog.Logger) Option {
	return func(c *Car) {
		if log != nil {
			c.log = log
		}
	}
}

// WithObserver registers an observer for the car's events.
func WithObserver(o Observer) Option {
	return func(c *Car) { c.observer = o }
}

// New validates its arguments and returns a Car with an empty tank.
// Fields are checked in order color, make, model, year; the first failure
// is returned as a *ValidationError and no Car is produced.
func New(color string, make Make, model string, year int, opts ...Option) (*Car, error) {
	if color == "" {
		return nil, NewValidationError("color", color, ErrInvalidColor)
	}
	if !make.Valid() {
		return nil, NewValidationError("make", string(make), ErrInvalidMake)
	}
	if model == "" {
		return nil, NewValidationError("model", model, ErrInvalidModel)
	}
	if year == 0 {
		return nil, NewValidationError("year", strconv.Itoa(year), ErrInvalidYear)
	}

	c := &Car{
		color: color,
		make:  make,
		model: model,
		year:  year,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Car) Color() string { return c.color }
func (c *Car) Make() Make    { return c.make }
func (c *Car) Model() string { return c.model }
func (c *Car) Year() int     { return c.year }
func (c *Car) Turbo() bool   { return c.turbo }

// Description renders the car's fixed attributes, e.g.
// "Green 1991 Toyota Trecel without turbo". It never reflects fuel.
func (c *Car) Description() string {
	turbo := "without turbo"
	if c.turbo {
		turbo = "with turbo"
	}
	return fmt.Sprintf("%s %d %s %s %s", c.color, c.year, c.make, c.model, turbo)
}

func (c *Car) String() string { return c.Description() }

// GasLeft returns the current fuel level.
func (c *Car) GasLeft() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gas
}

// FillUp adds amount to the tank, capping it at MaxGas.
func (c *Car) FillUp(amount int) error {
	if amount < 1 || amount > MaxGas {
		return NewValidationError("amount", strconv.Itoa(amount), ErrInvalidAmount)
	}
	c.mu.Lock()
	c.gas = min(c.gas+amount, MaxGas)
	left := c.gas
	c.mu.Unlock()

	c.emit(EventFillUp, left)
	return nil
}

// Drive burns one unit of fuel. With an empty tank it returns ErrOutOfGas
// and leaves the fuel level untouched.
func (c *Car) Drive() error {
	c.mu.Lock()
	if c.gas <= 0 {
		c.mu.Unlock()
		c.emit(EventOutOfGas, 0)
		return ErrOutOfGas
	}
	c.gas--
	left := c.gas
	c.mu.Unlock()

	c.log.Info("Driving a "+c.Description(), "gas_left", left)
	c.emit(EventDrive, left)
	return nil
}

// Beep logs that the car beeped.
func (c *Car) Beep() {
	c.log.Info(c.Description() + " beeped.")
	c.emit(EventBeep, c.GasLeft())
}

// Honk is an alias for Beep.
func (c *Car) Honk() { c.Beep() }

func (c *Car) emit(kind EventKind, gasLeft int) {
	if c.observer == nil {
		return
	}
	c.observer.Observe(Event{
		Kind:        kind,
		Make:        c.make,
		Description: c.Description(),
		GasLeft:     gasLeft,
		At:          c.now().UTC(),
	})
}

// Snapshot is a point-in-time view of a Car, suitable for encoding.
type Snapshot struct {
	Color       string `json:"color"`
	Make        Make   `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Turbo       bool   `json:"turbo"`
	GasLeft     int    `json:"gas_left"`
	Description string `json:"description"`
}

// Snapshot captures the car's fields and current fuel level.
func (c *Car) Snapshot() Snapshot {
	return Snapshot{
		Color:       c.color,
		Make:        c.make,
		Model:       c.model,
		Year:        c.year,
		Turbo:       c.turbo,
		GasLeft:     c.GasLeft(),
		Description: c.Description(),
	}
}

// MarshalJSON encodes the car as its Snapshot.
func (c *Car) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}
