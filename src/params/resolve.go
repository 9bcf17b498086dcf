package params

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/cstarkjp/GMPLib/src/gmlog"
)

// Resolve evaluates parameter values that are expressions referencing other
// parameters. The evaluations argument maps a group name to the keys within
// that group whose string values should be evaluated; the expression
// environment exposes "p" (the owning group) and "root" (all groups), so
// e.g. a geometry group can hold "p.channel_radius * 3" or
// "root.physical.gravity / 2". Evaluated results replace the strings
// in place.
//
// Groups are evaluated in a deterministic order: any groups named in
// sequence first, in that order, then the remaining listed groups in the
// store's group order. An expression that depends on another group's
// evaluated value needs that group to come earlier, so cross-group chains
// should name their order explicitly via sequence.
func (s *Store) Resolve(evaluations map[string][]string, sequence ...string) error {
	root := map[string]interface{}{}
	for name, g := range s.groups {
		sub := map[string]interface{}{}
		for k, v := range g {
			sub[k] = v
		}
		root[name] = sub
	}

	var order []string
	seen := map[string]bool{}
	for _, name := range sequence {
		if _, exists := s.groups[name]; !exists {
			return fmt.Errorf("parameters: cannot resolve unknown group %q", name)
		}
		if seen[name] {
			continue
		}
		if _, listed := evaluations[name]; listed {
			order = append(order, name)
		}
		seen[name] = true
	}
	for _, name := range s.order {
		if _, listed := evaluations[name]; listed && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	for name := range evaluations {
		if !seen[name] {
			return fmt.Errorf("parameters: cannot resolve unknown group %q", name)
		}
	}

	for _, groupName := range order {
		g := s.groups[groupName]
		for _, key := range evaluations[groupName] {
			raw, exists := g[key]
			if !exists {
				return fmt.Errorf("parameters: cannot resolve unknown key %q in group %q", key, groupName)
			}
			src, ok := raw.(string)
			if !ok {
				gmlog.Debugf("parameters: %s.%s is %T, nothing to resolve", groupName, key, raw)
				continue
			}
			env := map[string]interface{}{
				"p":    root[groupName],
				"root": root,
			}
			value, err := expr.Eval(src, env)
			if err != nil {
				return fmt.Errorf("parameters: evaluate %s.%s = %q: %w", groupName, key, src, err)
			}
			g[key] = value
			root[groupName].(map[string]interface{})[key] = value
		}
	}
	return nil
}
