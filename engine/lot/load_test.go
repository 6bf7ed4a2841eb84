package lot

import (
	"context"
	"errors"
	"testing"

	"github.com/WessleyAI/carlot/engine/car"
)

func TestSampleRecords(t *testing.T) {
	records := SampleRecords()
	if len(records) != 5 {
		t.Fatalf("expected 5 sample records, got %d", len(records))
	}
	if records[2]["model"] != "747" {
		t.Errorf("model should stay a string, got %#v", records[2]["model"])
	}
	if records[3]["turbo"] != true {
		t.Errorf("expected turbo on the Cruze, got %#v", records[3]["turbo"])
	}
}

func TestLoadSamples_RejectsBoeing(t *testing.T) {
	l := New(WithLogger(quiet()))
	ids, rejected, err := l.Load(context.Background(), SampleRecords(), car.WithLogger(quiet()))
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 4 || l.Len() != 4 {
		t.Fatalf("expected 4 cars loaded, got %d", len(ids))
	}
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected record, got %d", len(rejected))
	}
	r := rejected[0]
	if r.Index != 2 || r.Field() != "make" || !errors.Is(r.Err, car.ErrInvalidMake) {
		t.Fatalf("unexpected rejection: %+v", r)
	}
}

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords([]byte(`[{"color":"Red","make":"Honda","model":"Fit","year":2009,"turbo":"no"}]`))
	if err != nil {
		t.Fatal(err)
	}
	_, rejected, err := New(WithLogger(quiet())).Load(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if len(rejected) != 1 || !errors.Is(rejected[0].Err, car.ErrInvalidTurbo) || rejected[0].Field() != "turbo" {
		t.Fatalf("expected turbo rejection, got %+v", rejected)
	}

	if _, err := ParseRecords([]byte("- [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadStopsOnStoreError(t *testing.T) {
	l := New(WithStore(&fakeStore{err: errors.New("down")}), WithLogger(quiet()))
	ids, _, err := l.Load(context.Background(), SampleRecords(), car.WithLogger(quiet()))
	if err == nil {
		t.Fatal("expected store error")
	}
	if len(ids) != 0 {
		t.Fatalf("expected no IDs, got %v", ids)
	}
}

func TestRejectedFieldUnknown(t *testing.T) {
	if (Rejected{Err: errors.New("plain")}).Field() != "" {
		t.Fatal("non-validation errors have no field")
	}
}
