package car

// Make is a vehicle manufacturer accepted by New.
type Make string

const (
	Honda     Make = "Honda"
	Toyota    Make = "Toyota"
	Chevrolet Make = "Chevrolet"
)

// SupportedMakes is the closed set of makes a Car may carry.
var SupportedMakes = map[Make]bool{
	Honda:     true,
	Toyota:    true,
	Chevrolet: true,
}

// Valid reports whether m is one of SupportedMakes.
func (m Make) Valid() bool { return SupportedMakes[m] }

// MaxGas is the tank capacity.
const MaxGas = 10
