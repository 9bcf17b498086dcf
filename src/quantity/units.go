package quantity

import (
	"fmt"
	"math"
	"strings"
)

// unitDef gives a unit's dimension and its factor to the SI base unit of
// that dimension.
type unitDef struct {
	dim    string
	factor float64
}

const secondsPerYear = 365.25 * 24 * 3600 // Julian year

// Atomic units. Compound units are expressed as a/b (e.g. mm/yr) and are
// parsed on the fly. Time units include the geological yr/kyr/Myr scales.
var units = map[string]unitDef{
	// length
	"m":  {"length", 1},
	"cm": {"length", 0.01},
	"mm": {"length", 0.001},
	"um": {"length", 1e-6},
	"km": {"length", 1000},
	"in": {"length", 0.0254},
	"ft": {"length", 0.3048},
	// area
	"m^2":  {"area", 1},
	"km^2": {"area", 1e6},
	"mm^2": {"area", 1e-6},
	// time
	"s":   {"time", 1},
	"min": {"time", 60},
	"hr":  {"time", 3600},
	"day": {"time", 86400},
	"yr":  {"time", secondsPerYear},
	"kyr": {"time", 1e3 * secondsPerYear},
	"Myr": {"time", 1e6 * secondsPerYear},
	// mass
	"kg": {"mass", 1},
	"g":  {"mass", 0.001},
	"t":  {"mass", 1000},
	// angle
	"rad": {"angle", 1},
	"deg": {"angle", math.Pi / 180},
}

// parseUnit resolves an atomic or compound (a/b) unit name.
func parseUnit(name string) (unitDef, error) {
	if num, den, found := strings.Cut(name, "/"); found {
		un, err := parseUnit(num)
		if err != nil {
			return unitDef{}, err
		}
		ud, err := parseUnit(den)
		if err != nil {
			return unitDef{}, err
		}
		return unitDef{dim: un.dim + "/" + ud.dim, factor: un.factor / ud.factor}, nil
	}
	u, ok := units[name]
	if !ok {
		return unitDef{}, fmt.Errorf("quantity: unknown unit %q", name)
	}
	return u, nil
}

// ConvertValue converts v between two units of the same dimension.
func ConvertValue(v float64, from, to string) (float64, error) {
	uf, err := parseUnit(from)
	if err != nil {
		return 0, err
	}
	ut, err := parseUnit(to)
	if err != nil {
		return 0, err
	}
	if uf.dim != ut.dim {
		return 0, fmt.Errorf("quantity: cannot convert %s (%s) to %s (%s)", from, uf.dim, to, ut.dim)
	}
	return v * uf.factor / ut.factor, nil
}

// Convert re-expresses eq in the target unit, rounding the value to places
// decimals (places < 0 leaves the value unrounded).
func Convert(eq Eq, target string, places int) (Eq, error) {
	if eq.Unit == "" {
		return Eq{}, fmt.Errorf("quantity: %s has no unit to convert from", eq.Name)
	}
	v, err := ConvertValue(eq.Value, eq.Unit, target)
	if err != nil {
		return Eq{}, err
	}
	if places >= 0 {
		v = RoundValue(v, places, 1)
	}
	return Eq{Name: eq.Name, Value: v, Unit: target}, nil
}
