package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	require.Equal(t, "awards-honors", Slugify(" Awards & Honors ", 160))
	require.Equal(t, "cafe-creme", Slugify("Café Crème", 160))
	require.Equal(t, "item", Slugify("???", 160))
	require.Equal(t, "item", Slugify("", 160))
}

func TestSlugifyMaxLen(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := Slugify(long, 100)
	require.Len(t, got, 100)
}
