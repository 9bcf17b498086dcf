// Package quantity provides small conveniences for named physical
// quantities: rounding, unit conversion, and conversion of equation lists
// into ordered records for export.
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Eq is a named quantity equation: Name = Value [Unit].
type Eq struct {
	Name  string
	Value float64
	Unit  string
}

func (e Eq) String() string {
	v := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if e.Unit == "" {
		return fmt.Sprintf("%s = %s", e.Name, v)
	}
	return fmt.Sprintf("%s = %s %s", e.Name, v, e.Unit)
}

// RoundValue rounds v to places decimal places after scaling. places <= 0
// rounds to an integer value.
func RoundValue(v float64, places int, scale float64) float64 {
	if scale != 0 && scale != 1 {
		v *= scale
	}
	if places <= 0 {
		return math.Round(v)
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// Round returns eq with its value rounded to places decimal places after
// scaling by scale (a scale of 0 means 1).
func Round(eq Eq, places int, scale float64) Eq {
	eq.Value = RoundValue(eq.Value, places, scale)
	return eq
}

// E2D converts a list of equations into an ordered record mapping each
// equation's LHS name to its RHS value. With flip the mapping direction is
// reversed (value becomes the key); with negate both sides are negated
// first. A later equation with the same key overrides an earlier one.
func E2D(eqs []Eq, flip, negate bool) *orderedmap.OrderedMap {
	rec := orderedmap.New()
	for _, eq := range eqs {
		name, value := eq.Name, eq.Value
		if negate {
			name = "-" + name
			value = -value
		}
		if flip {
			rec.Set(strconv.FormatFloat(value, 'g', -1, 64), name)
			continue
		}
		rec.Set(name, value)
	}
	return rec
}

// OmitKeys returns a copy of rec without the listed keys. Keys absent from
// rec are skipped quietly.
func OmitKeys(rec *orderedmap.OrderedMap, omit []string) *orderedmap.OrderedMap {
	drop := make(map[string]bool, len(omit))
	for _, k := range omit {
		if _, exists := rec.Get(k); !exists {
			gmlog.Debugf("quantity: key %q not found, skipping", k)
			continue
		}
		drop[k] = true
	}
	out := orderedmap.New()
	for _, k := range rec.Keys() {
		if drop[k] {
			continue
		}
		v, _ := rec.Get(k)
		out.Set(k, v)
	}
	return out
}

// Numify parses a numeric string in which 'p' stands in for the decimal
// point (a filename-safe convention, e.g. "1p5" is 1.5).
func Numify(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "p", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("quantity: numify %q: %w", s, err)
	}
	return f, nil
}
