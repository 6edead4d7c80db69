package namespace

import (
	"fmt"
	"sort"
)

// FromMap builds a store from a nested map. Nested maps become internal
// paths; every other value becomes a leaf.
func FromMap(m map[string]any) (*Store, error) {
	s := New()
	if err := s.Merge(root, m); err != nil {
		return nil, err
	}

	return s, nil
}

// Merge sets every value of a nested map below a prefix.
func (s *Store) Merge(prefix string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		p := Clean(prefix + "/" + k)

		switch v := m[k].(type) {
		case map[string]any:
			if err := s.Merge(p, v); err != nil {
				return err
			}
		default:
			if err := s.Set(p, v); err != nil {
				return fmt.Errorf("%w: %q", err, k)
			}
		}
	}

	return nil
}

// Float returns a numeric leaf as a float64.
func (s *Store) Float(p string) (float64, error) {
	v, err := s.leaf(p)
	if err != nil {
		return 0, err
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T", ErrWrongType, Clean(p), v)
	}
}

// String returns a string leaf.
func (s *Store) String(p string) (string, error) {
	v, err := s.leaf(p)
	if err != nil {
		return "", err
	}

	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrWrongType, Clean(p), v)
	}

	return str, nil
}

func (s *Store) leaf(p string) (any, error) {
	p = Clean(p)

	v, ok := s.values[p]
	if !ok {
		return nil, &KeyError{Path: p}
	}

	return v, nil
}
