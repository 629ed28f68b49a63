package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chainmigrator/internal/app"
	"chainmigrator/internal/domain"
)

func unit(id, parent string) domain.Migration {
	return domain.Migration{ID: id, ParentID: parent, Name: "test_" + id}
}

func TestResolveOrdersChainRootFirst(t *testing.T) {
	tests := []struct {
		name  string
		units []domain.Migration
	}{
		{
			name:  "already ordered",
			units: []domain.Migration{unit("a", ""), unit("b", "a"), unit("c", "b")},
		},
		{
			name:  "reversed",
			units: []domain.Migration{unit("c", "b"), unit("b", "a"), unit("a", "")},
		},
		{
			name:  "shuffled",
			units: []domain.Migration{unit("b", "a"), unit("c", "b"), unit("a", "")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered, err := app.Resolve(tt.units)
			require.NoError(t, err)
			require.Len(t, ordered, 3)
			require.Equal(t, "a", ordered[0].ID)
			require.Equal(t, "b", ordered[1].ID)
			require.Equal(t, "c", ordered[2].ID)
		})
	}
}

func TestResolveEmptySet(t *testing.T) {
	ordered, err := app.Resolve(nil)
	require.NoError(t, err)
	require.Empty(t, ordered)
}

func TestResolveSingleRoot(t *testing.T) {
	ordered, err := app.Resolve([]domain.Migration{unit("a", "")})
	require.NoError(t, err)
	require.Len(t, ordered, 1)
}

func TestResolveNoRoot(t *testing.T) {
	_, err := app.Resolve([]domain.Migration{unit("a", "b"), unit("b", "a")})
	require.ErrorIs(t, err, domain.ErrNoRoot)
}

func TestResolveMultipleRoots(t *testing.T) {
	_, err := app.Resolve([]domain.Migration{unit("a", ""), unit("b", "")})
	require.ErrorIs(t, err, domain.ErrMultipleRoots)
}

func TestResolveBrokenChain(t *testing.T) {
	_, err := app.Resolve([]domain.Migration{unit("a", ""), unit("c", "missing")})
	var broken *domain.BrokenChainError
	require.ErrorAs(t, err, &broken)
	require.Equal(t, "c", broken.UnitID)
	require.Equal(t, "missing", broken.ParentID)
}

func TestResolveFork(t *testing.T) {
	_, err := app.Resolve([]domain.Migration{unit("a", ""), unit("b", "a"), unit("c", "a")})
	var fork *domain.ForkError
	require.ErrorAs(t, err, &fork)
	require.Equal(t, "a", fork.ParentID)
	require.Equal(t, [2]string{"b", "c"}, fork.UnitIDs)
}

func TestResolveCycle(t *testing.T) {
	// Root exists but b, c, d form a loop no parent walk escapes.
	_, err := app.Resolve([]domain.Migration{
		unit("a", ""),
		unit("b", "d"),
		unit("c", "b"),
		unit("d", "c"),
	})
	var cycle *domain.CycleError
	require.ErrorAs(t, err, &cycle)
}

func TestResolveDuplicateID(t *testing.T) {
	_, err := app.Resolve([]domain.Migration{unit("a", ""), unit("a", "")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate unit id")
}
