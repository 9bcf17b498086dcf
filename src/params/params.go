// Package params loads job parameter files and exposes them as a read-only
// store of named groups.
//
// Parameter files are JSON, JSONC (full-line // comments), or YAML. Files
// are merged in the order given, so a job file can override individual
// entries of a defaults file without restating the whole group.
package params

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/orderedmap"
	"gopkg.in/yaml.v3"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Group is one named sub-dictionary of parameters.
type Group map[string]interface{}

// Store holds merged job parameters. Read-only after Load apart from
// Resolve, which replaces expression strings with their evaluated values.
type Store struct {
	order  []string
	groups map[string]Group
}

// StripJSONC reads a JSONC file (full-line // comments only) and returns raw
// JSON bytes suitable for unmarshalling. Inline // is left alone because of
// URLs (http://).
func StripJSONC(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, []byte(line+"\n")...)
	}
	return out, scanner.Err()
}

// keyedValue is one top-level entry of a parameter file, in file order.
type keyedValue struct {
	key   string
	value interface{}
}

// readOne parses a single parameter file, choosing the decoder by extension.
// Top-level entries come back in the order the file declares them.
func readOne(path string) ([]keyedValue, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read parameters %s: %w", path, err)
		}
		return decodeOrderedJSON(b, path)
	case ".jsonc":
		b, err := StripJSONC(path)
		if err != nil {
			return nil, fmt.Errorf("read parameters %s: %w", path, err)
		}
		return decodeOrderedJSON(b, path)
	case ".yaml", ".yml":
		return decodeOrderedYAML(path)
	default:
		return nil, fmt.Errorf("parameters %s: unsupported file type %q", path, filepath.Ext(path))
	}
}

// decodeOrderedJSON unmarshals through an ordered map so the file's key
// order survives; encoding/json map decoding would lose it.
func decodeOrderedJSON(b []byte, path string) ([]keyedValue, error) {
	om := orderedmap.New()
	if err := json.Unmarshal(b, om); err != nil {
		return nil, fmt.Errorf("parse parameters %s: %w", path, err)
	}
	keys := om.Keys()
	out := make([]keyedValue, 0, len(keys))
	for _, k := range keys {
		v, _ := om.Get(k)
		out = append(out, keyedValue{key: k, value: plainValue(v)})
	}
	return out, nil
}

// plainValue rewrites ordered-map values as plain maps so the getters and
// Resolve see the same shapes regardless of the source format. Only the
// top-level group order matters, so nested order is not kept.
func plainValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case orderedmap.OrderedMap:
		m := map[string]interface{}{}
		for _, k := range tv.Keys() {
			val, _ := tv.Get(k)
			m[k] = plainValue(val)
		}
		return m
	case *orderedmap.OrderedMap:
		return plainValue(*tv)
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i := range tv {
			out[i] = plainValue(tv[i])
		}
		return out
	default:
		return v
	}
}

// decodeOrderedYAML walks the document node directly; decoding into a Go
// map would lose the mapping order.
func decodeOrderedYAML(path string) ([]keyedValue, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameters %s: %w", path, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse parameters %s: %w", path, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse parameters %s: top level is not a mapping", path)
	}
	out := make([]keyedValue, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		var v interface{}
		if err := m.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("parse parameters %s: %w", path, err)
		}
		out = append(out, keyedValue{key: m.Content[i].Value, value: v})
	}
	return out, nil
}

// ReadParameterFiles loads the given parameter files in order (usually a
// defaults file followed by a job file) and merges them into one mapping.
// A group present in a later file overrides matching keys of the earlier
// group; keys it does not mention are kept. The returned order lists each
// group at its first appearance, following the files.
func ReadParameterFiles(paths ...string) (map[string]Group, []string, error) {
	merged := map[string]Group{}
	var order []string
	for _, path := range paths {
		raw, err := readOne(path)
		if err != nil {
			return nil, nil, err
		}
		for _, kv := range raw {
			sub, ok := kv.value.(map[string]interface{})
			if !ok {
				gmlog.Warnf("parameters %s: top-level %q is not a group, skipping", path, kv.key)
				continue
			}
			dst, exists := merged[kv.key]
			if !exists {
				dst = Group{}
				merged[kv.key] = dst
				order = append(order, kv.key)
			}
			for sk, sv := range sub {
				dst[sk] = sv
			}
		}
	}
	return merged, order, nil
}

// Load reads and merges parameter files into a Store, normalizing the
// string "None" to nil.
func Load(paths ...string) (*Store, error) {
	merged, order, err := ReadParameterFiles(paths...)
	if err != nil {
		return nil, err
	}
	for _, g := range merged {
		for k, v := range g {
			if s, ok := v.(string); ok && s == "None" {
				g[k] = nil
			}
		}
	}
	return &Store{order: order, groups: merged}, nil
}

// GroupNames returns the group names in file order.
func (s *Store) GroupNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Group returns the named group, or nil if absent.
func (s *Store) Group(name string) Group { return s.groups[name] }

// Has reports whether the dotted path (group or group.key) exists.
func (s *Store) Has(path string) bool {
	group, key, ok := splitPath(path)
	g, exists := s.groups[group]
	if !exists {
		return false
	}
	if !ok {
		return true
	}
	_, exists = g[key]
	return exists
}

// Raw returns the value at the dotted path group.key.
func (s *Store) Raw(path string) (interface{}, error) {
	group, key, ok := splitPath(path)
	if !ok {
		return nil, fmt.Errorf("parameters: path %q is not group.key", path)
	}
	g, exists := s.groups[group]
	if !exists {
		return nil, fmt.Errorf("parameters: no group %q", group)
	}
	v, exists := g[key]
	if !exists {
		return nil, fmt.Errorf("parameters: no key %q in group %q", key, group)
	}
	return v, nil
}

// Float returns the numeric value at group.key.
func (s *Store) Float(path string) (float64, error) {
	v, err := s.Raw(path)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("parameters: %q is %T, not a number", path, v)
	}
	return f, nil
}

// Int returns the integer value at group.key.
func (s *Store) Int(path string) (int, error) {
	f, err := s.Float(path)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Str returns the string value at group.key.
func (s *Store) Str(path string) (string, error) {
	v, err := s.Raw(path)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameters: %q is %T, not a string", path, v)
	}
	return str, nil
}

// Bool returns the boolean value at group.key.
func (s *Store) Bool(path string) (bool, error) {
	v, err := s.Raw(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameters: %q is %T, not a bool", path, v)
	}
	return b, nil
}

// Floats returns the numeric sequence at group.key.
func (s *Store) Floats(path string) ([]float64, error) {
	v, err := s.Raw(path)
	if err != nil {
		return nil, err
	}
	seq, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameters: %q is %T, not a sequence", path, v)
	}
	out := make([]float64, len(seq))
	for i, item := range seq {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("parameters: %q[%d] is %T, not a number", path, i, item)
		}
		out[i] = f
	}
	return out, nil
}

// Strings returns the string sequence at group.key.
func (s *Store) Strings(path string) ([]string, error) {
	v, err := s.Raw(path)
	if err != nil {
		return nil, err
	}
	seq, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("parameters: %q is %T, not a sequence", path, v)
	}
	out := make([]string, len(seq))
	for i, item := range seq {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameters: %q[%d] is %T, not a string", path, i, item)
		}
		out[i] = str
	}
	return out, nil
}

func splitPath(path string) (group, key string, hasKey bool) {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i], path[i+1:], true
	}
	return path, "", false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
