package car

import "time"

// EventKind names something that happened to a car.
type EventKind string

const (
	EventDrive    EventKind = "drive"
	EventFillUp   EventKind = "fill_up"
	EventBeep     EventKind = "beep"
	EventOutOfGas EventKind = "out_of_gas"
)

// Event is reported to a car's Observer after each operation.
type Event struct {
	Kind        EventKind `json:"kind"`
	Make        Make      `json:"make"`
	Description string    `json:"description"`
	GasLeft     int       `json:"gas_left"`
	At          time.Time `json:"at"`
}

// Observer receives car events. Observe is called synchronously from the
// car operation and must not call back into the same car's Drive or FillUp.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Observers fans an event out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) Observe(ev Event) {
	for _, o := range m {
		o.Observe(ev)
	}
}
