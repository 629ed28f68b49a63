package app

import (
	"sort"

	"github.com/pkg/errors"

	"chainmigrator/internal/domain"
)

// Resolve validates that units form a single linear chain and returns them
// ordered root-first. It is a pure function: no database access, no
// mutation of its input.
func Resolve(units []domain.Migration) ([]domain.Migration, error) {
	if len(units) == 0 {
		return nil, nil
	}

	byID := make(map[string]domain.Migration, len(units))
	for _, u := range units {
		if u.ID == "" {
			return nil, errors.New("unit with empty id")
		}
		if _, ok := byID[u.ID]; ok {
			return nil, errors.Errorf("duplicate unit id %s", u.ID)
		}
		byID[u.ID] = u
	}

	var root string
	child := make(map[string]string, len(units)) // parent id -> child id
	for _, u := range units {
		if u.IsRoot() {
			if root != "" {
				return nil, domain.ErrMultipleRoots
			}
			root = u.ID
			continue
		}
		if _, ok := byID[u.ParentID]; !ok {
			return nil, &domain.BrokenChainError{UnitID: u.ID, ParentID: u.ParentID}
		}
		if prev, ok := child[u.ParentID]; ok {
			ids := [2]string{prev, u.ID}
			sort.Strings(ids[:])
			return nil, &domain.ForkError{ParentID: u.ParentID, UnitIDs: ids}
		}
		child[u.ParentID] = u.ID
	}
	if root == "" {
		return nil, domain.ErrNoRoot
	}

	ordered := make([]domain.Migration, 0, len(units))
	for id := root; id != ""; id = child[id] {
		ordered = append(ordered, byID[id])
	}
	if len(ordered) != len(units) {
		// Some unit never showed up on the walk from the root, so its
		// parent links loop back on themselves.
		reached := make(map[string]bool, len(ordered))
		for _, u := range ordered {
			reached[u.ID] = true
		}
		for _, u := range units {
			if !reached[u.ID] {
				return nil, &domain.CycleError{UnitID: u.ID}
			}
		}
	}
	return ordered, nil
}
