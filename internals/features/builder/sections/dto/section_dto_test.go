package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeOption(t *testing.T) {
	opt := NormalizeOption("  Best Actor ")
	require.Equal(t, "Best Actor", opt.Label)
	require.Equal(t, "best_actor", opt.Value)
}

func TestParseFieldsConfig(t *testing.T) {
	raw := `[
		{"title": "Award Type", "type": "select", "is_required": "1",
		 "options": ["Best Actor", "Best Director", "", 42]},
		{"title": "  ", "type": "text"},
		{"title": "Year", "type": "text", "is_required": false}
	]`

	fields, err := ParseFieldsConfig(raw)
	require.NoError(t, err)
	require.Len(t, fields, 2) // blank-titled field dropped

	require.Equal(t, "Award Type", fields[0].Title)
	require.True(t, fields[0].IsRequired)
	require.Len(t, fields[0].Options, 2) // empty and non-string options dropped
	require.Equal(t, "best_actor", fields[0].Options[0].Value)
	require.Equal(t, "Best Actor", fields[0].Options[0].Label)

	require.Equal(t, "Year", fields[1].Title)
	require.False(t, fields[1].IsRequired)
	require.Empty(t, fields[1].Options)
}

func TestParseFieldsConfigEmpty(t *testing.T) {
	fields, err := ParseFieldsConfig("   ")
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = ParseFieldsConfig("{not json")
	require.Error(t, err)
}

func TestCreateSectionRequestNormalize(t *testing.T) {
	req := CreateSectionRequest{Name: " Awards & Honors "}
	req.Normalize()
	require.Equal(t, "Awards & Honors", req.Name)
	require.Equal(t, "awards-honors", req.Slug)
}
