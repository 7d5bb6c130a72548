package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "my-book", Slugify("My Book"))
	require.Equal(t, "my-book", Slugify("  My   Book!  "))
	require.Equal(t, "tome-2", Slugify("Tome #2"))
	require.Equal(t, "", Slugify("!!!"))
}

func TestUniqueSlugCollision(t *testing.T) {
	taken := map[string]bool{}
	exists := func(s string) (bool, error) { return taken[s], nil }

	first, err := UniqueSlug("My Book", exists)
	require.NoError(t, err)
	require.Equal(t, "my-book", first)
	taken[first] = true

	second, err := UniqueSlug("My Book", exists)
	require.NoError(t, err)
	require.Equal(t, "my-book-1", second)
	taken[second] = true

	third, err := UniqueSlug("My Book", exists)
	require.NoError(t, err)
	require.Equal(t, "my-book-2", third)
}

func TestUniqueSlugEmptyBase(t *testing.T) {
	slug, err := UniqueSlug("???", func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	require.Equal(t, "item", slug)
}

func TestCalculate(t *testing.T) {
	from, limit := Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	from, limit = Calculate(3, 20)
	require.Equal(t, 40, from)
	require.Equal(t, 20, limit)

	_, limit = Calculate(1, 1000)
	require.Equal(t, DefaultPageSize, limit)
}
