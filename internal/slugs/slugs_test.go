package slugs

import (
	"testing"

	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"
)

func TestAllocateDisambiguates(t *testing.T) {
	a := NewAllocator()

	require.Equal(t, "captain", a.Allocate(NamespaceDatasheet, "Captain"))
	require.Equal(t, "captain-2", a.Allocate(NamespaceDatasheet, "Captain"))
	require.Equal(t, "captain-3", a.Allocate(NamespaceDatasheet, "captain"))
	require.Equal(t, 3, a.Count(NamespaceDatasheet))
}

func TestAllocateSkipsTakenSuffix(t *testing.T) {
	a := NewAllocator()

	require.Equal(t, "unit-2", a.Allocate(NamespaceDatasheet, "Unit 2"))
	require.Equal(t, "unit", a.Allocate(NamespaceDatasheet, "Unit"))
	// "unit-2" belongs to "Unit 2" already
	require.Equal(t, "unit-3", a.Allocate(NamespaceDatasheet, "Unit"))
}

func TestNamespacesAreIndependent(t *testing.T) {
	a := NewAllocator()

	require.Equal(t, "necrons", a.Allocate(NamespaceFaction, "Necrons"))
	require.Equal(t, "necrons", a.Allocate(NamespaceDatasheet, "Necrons"))
	require.True(t, a.Taken(NamespaceFaction, "necrons"))
	require.False(t, a.Taken(NamespaceFaction, "necrons-2"))
}

func TestAllocateEmptyName(t *testing.T) {
	a := NewAllocator()

	require.Equal(t, "datasheet", a.Allocate(NamespaceDatasheet, ""))
	require.Equal(t, "datasheet-2", a.Allocate(NamespaceDatasheet, "<p>&nbsp;</p>"))
}

func TestAllocateDecodesMarkup(t *testing.T) {
	a := NewAllocator()
	require.Equal(t, "emperors-children", a.Allocate(NamespaceFaction, "Emperor&#39;s Children"))
}

func TestSlugUniqueness(t *testing.T) {
	var names []string
	for i := 0; i < 50; i++ {
		name, err := random.String(6)
		require.NoError(t, err)
		// every name shows up under three spellings to force collisions
		names = append(names, name, name, " "+name+"!")
	}

	allocate := func() []string {
		a := NewAllocator()
		out := make([]string, len(names))
		for i, name := range names {
			out[i] = a.Allocate(NamespaceFaction, name)
		}
		return out
	}

	first := allocate()
	seen := make(map[string]bool)
	for _, slug := range first {
		require.NotEmpty(t, slug)
		require.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true
	}

	// same input, same order, same slugs
	require.Equal(t, first, allocate())
}
