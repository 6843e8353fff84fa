package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	// JSON array form
	got := ParseTemplateIDs(`["` + a.String() + `","` + b.String() + `"]`)
	require.Equal(t, []uuid.UUID{a, b}, got)

	// comma-separated form, with noise entries dropped
	got = ParseTemplateIDs(a.String() + ", not-a-uuid , " + b.String())
	require.Equal(t, []uuid.UUID{a, b}, got)

	require.Empty(t, ParseTemplateIDs(""))
	require.Empty(t, ParseTemplateIDs("[broken json"))
}
