package lot

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/WessleyAI/carlot/engine/car"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var samplesYAML []byte

// Record is a loosely typed car record as read from YAML or JSON.
type Record = map[string]any

// Rejected describes a record that failed validation.
type Rejected struct {
	Index  int
	Record Record
	Err    error
}

// Field returns the name of the field that failed, if known.
func (r Rejected) Field() string {
	var ve *car.ValidationError
	if errors.As(r.Err, &ve) {
		return ve.Field
	}
	return ""
}

// ParseRecords decodes a YAML (or JSON) list of car records.
func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("lot: parse records: %w", err)
	}
	return records, nil
}

// SampleRecords returns the five demo records.
func SampleRecords() []Record {
	records, err := ParseRecords(samplesYAML)
	if err != nil {
		panic(err)
	}
	return records
}

// Load builds a car from each record and adds it to the lot. Records that
// fail validation are skipped and returned as Rejected; a store failure
// aborts the load.
func (l *Lot) Load(ctx context.Context, records []Record, opts ...car.Option) ([]string, []Rejected, error) {
	var ids []string
	var rejected []Rejected
	for i, rec := range records {
		c, err := car.FromFields(rec, opts...)
		if err != nil {
			l.log.Warn("car record rejected", "index", i, "error", err)
			rejected = append(rejected, Rejected{Index: i, Record: rec, Err: err})
			continue
		}
		id, err := l.Add(ctx, c)
		if err != nil {
			return ids, rejected, err
		}
		ids = append(ids, id)
	}
	return ids, rejected, nil
}
