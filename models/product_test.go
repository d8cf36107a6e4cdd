package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProduct_WithImage(t *testing.T) {
	tests := []struct {
		name   string
		images string
		want   string
	}{
		{"empty", "", `["https://cdn/new.png"]`},
		{"null", "null", `["https://cdn/new.png"]`},
		{"url list", `["https://cdn/a.png"]`, `["https://cdn/a.png","https://cdn/new.png"]`},
		{
			"object entries are kept",
			`[{"url":"https://cdn/a.png","alt":"front"}]`,
			`[{"url":"https://cdn/a.png","alt":"front"},"https://cdn/new.png"]`,
		},
		{"mixed entries", `[{"src":"legacy"}, 7, "https://cdn/b.png"]`, `[{"src":"legacy"},7,"https://cdn/b.png","https://cdn/new.png"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Images: datatypes.JSON(tt.images)}
			next, err := p.WithImage("https://cdn/new.png")
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(next))
		})
	}
}

func TestProduct_WithImage_SkipsDuplicates(t *testing.T) {
	p := Product{Images: datatypes.JSON(`[{"url":"https://cdn/a.png","alt":"front"}]`)}
	next, err := p.WithImage("https://cdn/a.png")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"url":"https://cdn/a.png","alt":"front"}]`, string(next))
}

func TestProduct_WithImage_RejectsNonArray(t *testing.T) {
	p := Product{Slug: "double-hung", Images: datatypes.JSON(`{"hero":"https://cdn/a.png"}`)}
	_, err := p.WithImage("https://cdn/new.png")
	assert.ErrorContains(t, err, "not a JSON array")
}

func TestProduct_ImageURLs(t *testing.T) {
	p := Product{Images: datatypes.JSON(`["https://cdn/a.png",{"url":"https://cdn/b.png","alt":"side"},{"src":"x"}]`)}
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, p.ImageURLs())

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"alt":"side"`)

	assert.Nil(t, Product{Images: datatypes.JSON(`"oops"`)}.ImageURLs())
}
