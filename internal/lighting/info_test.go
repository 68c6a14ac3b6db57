package lighting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gridA = Grid{{Lum(0.5)}}
	gridB = Grid{{Lum(0.25), Sample{}}, {Lum(1)}}
)

func TestParseShapes(t *testing.T) {
	t.Parallel()

	t.Run("single grid", func(t *testing.T) {
		t.Parallel()
		info, err := Parse([]byte(`[[0.5, null], [1.0]]`))
		require.NoError(t, err)
		assert.Equal(t, Single, info.Kind())
		g, ok := info.Select(NoDepth)
		require.True(t, ok)
		want := Grid{{Lum(0.5), Sample{}}, {Lum(1)}}
		if diff := cmp.Diff(want, g); diff != "" {
			t.Errorf("grid mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("keyed grids", func(t *testing.T) {
		t.Parallel()
		info, err := Parse([]byte(`{"0": [[0.5]], "3": [[0.25, null], [1]]}`))
		require.NoError(t, err)
		assert.Equal(t, Keyed, info.Kind())
		assert.Equal(t, 2, info.Len())
		g, ok := info.Select(At(3))
		require.True(t, ok)
		if diff := cmp.Diff(gridB, g); diff != "" {
			t.Errorf("grid mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("positional grids", func(t *testing.T) {
		t.Parallel()
		info, err := Parse([]byte(`[[[0.5]], [[0.25, null], [1]]]`))
		require.NoError(t, err)
		assert.Equal(t, Positional, info.Kind())
		assert.Equal(t, 2, info.Len())
	})

	t.Run("non numeric key", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{"ground": [[0.5]]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "numeric z-level")
	})

	t.Run("key out of range", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{"256": [[0.5]]}`))
		require.Error(t, err)
	})

	t.Run("not structured data", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`"hello"`))
		require.Error(t, err)
	})
}

func TestSelectSingleGridFallback(t *testing.T) {
	t.Parallel()

	sets := map[string]*Info{
		"single":     NewSingle(gridA),
		"keyed":      NewKeyed(map[uint8]Grid{7: gridA}),
		"positional": NewPositional([]Grid{gridA}),
	}
	for name, info := range sets {
		name, info := name, info
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, d := range []Depth{NoDepth, At(0), At(7), At(200)} {
				g, ok := info.Select(d)
				require.True(t, ok, "depth %s", d)
				assert.Equal(t, gridA, g)
			}
		})
	}
}

func TestSelectKeyed(t *testing.T) {
	t.Parallel()
	info := NewKeyed(map[uint8]Grid{0: gridA, 1: gridB})

	_, ok := info.Select(NoDepth)
	assert.False(t, ok, "unspecified depth is ambiguous")

	_, ok = info.Select(At(2))
	assert.False(t, ok, "missing depth")

	g, ok := info.Select(At(1))
	require.True(t, ok)
	assert.Equal(t, gridB, g)
}

func TestSelectPositional(t *testing.T) {
	t.Parallel()
	ground := Grid{{Lum(0)}}
	info := NewPositional([]Grid{ground, gridA, gridB})

	g, ok := info.Select(NoDepth)
	require.True(t, ok)
	assert.Equal(t, ground, g)

	g, ok = info.Select(At(0))
	require.True(t, ok)
	assert.Equal(t, gridA, g)

	g, ok = info.Select(At(1))
	require.True(t, ok)
	assert.Equal(t, gridB, g)

	_, ok = info.Select(At(2))
	assert.False(t, ok)
}

func TestPositionalIndex(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, PositionalIndex(NoDepth))
	assert.Equal(t, 1, PositionalIndex(At(0)))
	assert.Equal(t, 256, PositionalIndex(At(255)))
}

func TestLevels(t *testing.T) {
	t.Parallel()
	assert.Empty(t, NewSingle(gridA).Levels())
	assert.Equal(t, []Depth{At(0), At(2), At(10)},
		NewKeyed(map[uint8]Grid{10: gridA, 0: gridA, 2: gridB}).Levels())
	assert.Equal(t, []Depth{At(0), At(1)},
		NewPositional([]Grid{gridA, gridA, gridB}).Levels())
}

func TestDepthString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "none", NoDepth.String())
	assert.Equal(t, "12", At(12).String())
}

func TestRead(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "lighting.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1": [[0.5]]}`), 0o644))
	info, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, Keyed, info.Kind())

	_, err = Read(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = Read(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}
