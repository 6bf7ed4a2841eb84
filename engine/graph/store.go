// Package graph snapshots lot cars into Neo4j as (:Car)-[:BUILT_BY]->(:Make).
package graph

import (
	"context"
	"fmt"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/pkg/resilience"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// result is the minimal interface needed from a neo4j result.
type result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// runner is the minimal interface needed from a neo4j session.
type runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (result, error)
	Close(ctx context.Context) error
}

// Store writes car snapshots to Neo4j.
type Store struct {
	driver     neo4j.DriverWithContext
	breaker    *resilience.Breaker
	newSession func(ctx context.Context) runner // for testing
}

// Option configures a Store.
type Option func(*Store)

// WithBreaker routes every query through b so an unreachable database
// fails fast with resilience.ErrCircuitOpen.
func WithBreaker(b *resilience.Breaker) Option {
	return func(s *Store) { s.breaker = b }
}

// New creates a Store on top of driver.
func New(driver neo4j.DriverWithContext, opts ...Option) *Store {
	s := &Store{driver: driver}
	for _, o := range opts {
		o(s)
	}
	return s
}

// sessionAdapter adapts neo4j.SessionWithContext to the runner interface.
type sessionAdapter struct {
	sess neo4j.SessionWithContext
}

func (a *sessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (result, error) {
	return a.sess.Run(ctx, cypher, params)
}

func (a *sessionAdapter) Close(ctx context.Context) error {
	return a.sess.Close(ctx)
}

func (s *Store) session(ctx context.Context) runner {
	if s.newSession != nil {
		return s.newSession(ctx)
	}
	return &sessionAdapter{sess: s.driver.NewSession(ctx, neo4j.SessionConfig{})}
}

// SaveCar creates or updates the Car node for id and links it to its Make.
func (s *Store) SaveCar(ctx context.Context, id string, snap car.Snapshot) error {
	if s.breaker == nil {
		return s.saveCar(ctx, id, snap)
	}
	return s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.saveCar(ctx, id, snap)
	})
}

func (s *Store) saveCar(ctx context.Context, id string, snap car.Snapshot) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (m:Make {name: $make})
	           MERGE (c:Car {id: $id})
	           SET c.color = $color, c.model = $model, c.year = $year,
	               c.turbo = $turbo, c.gas_left = $gasLeft, c.description = $description
	           MERGE (c)-[:BUILT_BY]->(m)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":          id,
		"make":        string(snap.Make),
		"color":       snap.Color,
		"model":       snap.Model,
		"year":        snap.Year,
		"turbo":       snap.Turbo,
		"gasLeft":     snap.GasLeft,
		"description": snap.Description,
	})
	if err != nil {
		return fmt.Errorf("graph: save car %s: %w", id, err)
	}
	return nil
}

// CountByMake returns how many Car nodes are linked to each Make.
func (s *Store) CountByMake(ctx context.Context) (map[car.Make]int64, error) {
	if s.breaker == nil {
		return s.countByMake(ctx)
	}
	return resilience.Do(s.breaker, ctx, s.countByMake)
}

func (s *Store) countByMake(ctx context.Context) (map[car.Make]int64, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (c:Car)-[:BUILT_BY]->(m:Make)
	           RETURN m.name AS make, count(c) AS cars`
	res, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: count by make: %w", err)
	}

	out := make(map[car.Make]int64)
	for res.Next(ctx) {
		rec := res.Record()
		name, _, err := neo4j.GetRecordValue[string](rec, "make")
		if err != nil {
			return nil, fmt.Errorf("graph: count by make: %w", err)
		}
		n, _, err := neo4j.GetRecordValue[int64](rec, "cars")
		if err != nil {
			return nil, fmt.Errorf("graph: count by make: %w", err)
		}
		out[car.Make(name)] = n
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("graph: count by make: %w", err)
	}
	return out, nil
}
