// Package export writes computed results and rendered figures to disk:
// ordered results records as indented JSON, figures as PNG, SVG, JPG, or
// single-page PDF files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/orderedmap"

	"github.com/cstarkjp/GMPLib/src/gmlog"
	"github.com/cstarkjp/GMPLib/src/quantity"
)

// Options control results serialization.
type Options struct {
	// RoundPlaces rounds float values to this many decimals; negative
	// disables rounding.
	RoundPlaces int
	// MaxSliceLen omits slices longer than this; zero means unlimited.
	MaxSliceLen int
	// Strict turns a non-serializable value into an error instead of a
	// skipped entry.
	Strict bool
}

// CreateDirs joins the path elements and creates the directory, parents
// included. Returns the joined path; an existing directory is fine.
func CreateDirs(elem ...string) (string, error) {
	dir := filepath.Join(elem...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir %s: %w", dir, err)
	}
	return dir, nil
}

// ExportResults writes the record as an indented JSON file named
// <name>[_suffix].json under dir and returns the written path.
func ExportResults(dir, name, suffix string, rec *orderedmap.OrderedMap, opts Options) (string, error) {
	clean, err := sanitizeRecord(rec, opts)
	if err != nil {
		return "", err
	}
	if suffix != "" {
		name += "_" + suffix
	}
	path := filepath.Join(dir, name+".json")
	b, err := json.MarshalIndent(clean, "", "    ")
	if err != nil {
		return "", fmt.Errorf("serialize results %s: %w", path, err)
	}
	gmlog.Infof("export: writing %q", path)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write results %s: %w", path, err)
	}
	return path, nil
}

// LoadResults reads a results JSON file back into an ordered record.
func LoadResults(path string) (*orderedmap.OrderedMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results %s: %w", path, err)
	}
	rec := orderedmap.New()
	if err := json.Unmarshal(b, rec); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return rec, nil
}

func sanitizeRecord(rec *orderedmap.OrderedMap, opts Options) (*orderedmap.OrderedMap, error) {
	out := orderedmap.New()
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		cv, keep, err := sanitizeValue(key, v, opts)
		if err != nil {
			return nil, err
		}
		if keep {
			out.Set(key, cv)
		}
	}
	return out, nil
}

// sanitizeValue applies rounding and size limits and drops (or rejects,
// under Strict) values encoding/json cannot represent.
func sanitizeValue(key string, v interface{}, opts Options) (interface{}, bool, error) {
	switch tv := v.(type) {
	case float64:
		if opts.RoundPlaces >= 0 {
			return roundTo(tv, opts.RoundPlaces), true, nil
		}
		return tv, true, nil
	case []float64:
		if opts.MaxSliceLen > 0 && len(tv) > opts.MaxSliceLen {
			gmlog.Warnf("export: %q has %d entries, over the %d limit; omitting", key, len(tv), opts.MaxSliceLen)
			return nil, false, nil
		}
		out := make([]float64, len(tv))
		for i, f := range tv {
			if opts.RoundPlaces >= 0 {
				f = roundTo(f, opts.RoundPlaces)
			}
			out[i] = f
		}
		return out, true, nil
	case []interface{}:
		if opts.MaxSliceLen > 0 && len(tv) > opts.MaxSliceLen {
			gmlog.Warnf("export: %q has %d entries, over the %d limit; omitting", key, len(tv), opts.MaxSliceLen)
			return nil, false, nil
		}
		out := make([]interface{}, 0, len(tv))
		for i, item := range tv {
			cv, keep, err := sanitizeValue(fmt.Sprintf("%s[%d]", key, i), item, opts)
			if err != nil {
				return nil, false, err
			}
			if keep {
				out = append(out, cv)
			}
		}
		return out, true, nil
	case *orderedmap.OrderedMap:
		sub, err := sanitizeRecord(tv, opts)
		if err != nil {
			return nil, false, err
		}
		return sub, true, nil
	case orderedmap.OrderedMap:
		sub, err := sanitizeRecord(&tv, opts)
		if err != nil {
			return nil, false, err
		}
		return sub, true, nil
	case map[string]interface{}:
		out := map[string]interface{}{}
		for k, item := range tv {
			cv, keep, err := sanitizeValue(key+"."+k, item, opts)
			if err != nil {
				return nil, false, err
			}
			if keep {
				out[k] = cv
			}
		}
		return out, true, nil
	default:
		if _, err := json.Marshal(v); err != nil {
			if opts.Strict {
				return nil, false, fmt.Errorf("export: %q is not JSON-serializable: %w", key, err)
			}
			gmlog.Warnf("export: %q (%T) is not JSON-serializable; skipping", key, v)
			return nil, false, nil
		}
		return v, true, nil
	}
}

func roundTo(v float64, places int) float64 {
	return quantity.RoundValue(v, places, 1)
}
