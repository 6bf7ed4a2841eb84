package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsEvents(t *testing.T) {
	c := New("carlot")
	c.Observe(car.Event{Kind: car.EventDrive, Make: car.Toyota, GasLeft: 9})
	c.Observe(car.Event{Kind: car.EventDrive, Make: car.Toyota, GasLeft: 8})
	c.Observe(car.Event{Kind: car.EventBeep, Make: car.Honda, GasLeft: 0})

	if got := testutil.ToFloat64(c.events.WithLabelValues("drive", "Toyota")); got != 2 {
		t.Fatalf("expected 2 drives, got %v", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("beep", "Honda")); got != 1 {
		t.Fatalf("expected 1 beep, got %v", got)
	}
}

func TestObserveAsCarObserver(t *testing.T) {
	c := New("carlot")
	vehicle, err := car.New("Green", car.Toyota, "Trecel", 1991, car.WithObserver(c))
	if err != nil {
		t.Fatal(err)
	}
	vehicle.Drive()
	vehicle.FillUp(10)
	vehicle.Drive()

	if got := testutil.ToFloat64(c.events.WithLabelValues("out_of_gas", "Toyota")); got != 1 {
		t.Fatalf("expected 1 out_of_gas, got %v", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("fill_up", "Toyota")); got != 1 {
		t.Fatalf("expected 1 fill_up, got %v", got)
	}
}

func TestLotSizeAndRejected(t *testing.T) {
	c := New("carlot")
	c.SetLotSize(4)
	c.Rejected("make")
	c.Rejected("")

	if got := testutil.ToFloat64(c.lotSize); got != 4 {
		t.Fatalf("expected lot size 4, got %v", got)
	}
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("make")); got != 1 {
		t.Fatalf("expected 1 make rejection, got %v", got)
	}
	if got := testutil.ToFloat64(c.rejected.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected 1 unknown rejection, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	c := New("carlot")
	c.Observe(car.Event{Kind: car.EventFillUp, Make: car.Chevrolet, GasLeft: 10})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`carlot_car_events_total{kind="fill_up",make="Chevrolet"} 1`,
		`# TYPE carlot_car_gas_left histogram`,
		`carlot_lot_cars 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("missing %q in output", want)
		}
	}
}
