package car

import (
	"encoding/json"
	"fmt"
	"math"
)

// FromFields builds a Car from a loosely typed record such as a decoded JSON
// or YAML object. Besides the checks New performs, it rejects values of the
// wrong dynamic type: color and model must be strings, year a whole number,
// and turbo, when present, a bool.
func FromFields(fields map[string]any, opts ...Option) (*Car, error) {
	color, ok := fields["color"].(string)
	if !ok || color == "" {
		return nil, NewValidationError("color", fieldValue(fields["color"]), ErrInvalidColor)
	}

	mk, _ := fields["make"].(string)
	if !Make(mk).Valid() {
		return nil, NewValidationError("make", fieldValue(fields["make"]), ErrInvalidMake)
	}

	model, ok := fields["model"].(string)
	if !ok || model == "" {
		return nil, NewValidationError("model", fieldValue(fields["model"]), ErrInvalidModel)
	}

	year, ok := wholeNumber(fields["year"])
	if !ok || year == 0 {
		return nil, NewValidationError("year", fieldValue(fields["year"]), ErrInvalidYear)
	}

	var turbo bool
	if v, present := fields["turbo"]; present && v != nil {
		b, ok := v.(bool)
		if !ok {
			return nil, NewValidationError("turbo", fieldValue(v), ErrInvalidTurbo)
		}
		turbo = b
	}

	return New(color, Make(mk), model, year, append([]Option{WithTurbo(turbo)}, opts...)...)
}

// wholeNumber accepts the numeric types produced by encoding/json and yaml.v3.
func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func fieldValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
