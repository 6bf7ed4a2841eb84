package lot

import (
	"context"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/pkg/fn"
)

// MakeSeparator joins makes in MakesSince output.
const MakeSeparator = ", "

// MakesSince lists, in order, the makes of cars built after year, joined by
// MakeSeparator. Each step runs as a traced stage.
func MakesSince(ctx context.Context, cars []*car.Car, year int) string {
	query := fn.Then(
		fn.TracedStage("lot.filter_year", fn.MapStage(func(cs []*car.Car) []*car.Car {
			return fn.Filter(cs, func(c *car.Car) bool { return c.Year() > year })
		})),
		fn.TracedStage("lot.join_makes", fn.MapStage(func(cs []*car.Car) string {
			return fn.JoinBy(cs, MakeSeparator, func(c *car.Car) string { return string(c.Make()) })
		})),
	)
	return query(ctx, cars).UnwrapOr("")
}

// MakesSince runs MakesSince over the cars in the lot.
func (l *Lot) MakesSince(ctx context.Context, year int) string {
	return MakesSince(ctx, l.Cars(), year)
}
