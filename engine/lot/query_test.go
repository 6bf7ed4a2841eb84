package lot

import (
	"context"
	"testing"

	"github.com/WessleyAI/carlot/engine/car"
)

func TestMakesSince(t *testing.T) {
	cars := []*car.Car{
		newCar(t, "Green", car.Honda, "Civic", 1979),
		newCar(t, "Red", car.Chevrolet, "Cruze", 2014),
		newCar(t, "Green", car.Toyota, "Trecel", 1991),
		newCar(t, "Blue", car.Toyota, "Corolla", 1990),
	}
	cases := []struct {
		year int
		want string
	}{
		{1990, "Chevrolet, Toyota"},
		{1991, "Chevrolet"},
		{1970, "Honda, Chevrolet, Toyota, Toyota"},
		{2020, ""},
	}
	for _, tc := range cases {
		if got := MakesSince(context.Background(), cars, tc.year); got != tc.want {
			t.Errorf("MakesSince(%d) = %q, want %q", tc.year, got, tc.want)
		}
	}
}

func TestMakesSinceEmpty(t *testing.T) {
	if got := New().MakesSince(context.Background(), 1990); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

// The demo lot: filter by year > 1990, map to make, join.
func TestSampleLot_MakesAfter1990(t *testing.T) {
	l := New(WithLogger(quiet()))
	if _, _, err := l.Load(context.Background(), SampleRecords(), car.WithLogger(quiet())); err != nil {
		t.Fatal(err)
	}
	if got := l.MakesSince(context.Background(), 1990); got != "Chevrolet, Toyota" {
		t.Fatalf("expected %q, got %q", "Chevrolet, Toyota", got)
	}
}

// The demo drive: fill car #5, drive it, honk it.
func TestSampleLot_DriveTrecel(t *testing.T) {
	l := New(WithLogger(quiet()))
	if _, _, err := l.Load(context.Background(), SampleRecords(), car.WithLogger(quiet())); err != nil {
		t.Fatal(err)
	}
	cars := l.Cars()
	trecel := cars[len(cars)-1]

	if err := trecel.FillUp(10); err != nil {
		t.Fatal(err)
	}
	if err := trecel.Drive(); err != nil {
		t.Fatal(err)
	}
	trecel.Honk()

	if got := trecel.Description(); got != "Green 1991 Toyota Trecel without turbo" {
		t.Fatalf("unexpected description %q", got)
	}
	if trecel.GasLeft() != 9 {
		t.Fatalf("expected 9 left, got %d", trecel.GasLeft())
	}
}
