package siteconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "daily.json", `{
		"site": "Daily Planet",
		"base_url": "https://daily.example.com",
		"limit": 10,
		"article": {
			"container": "div.story",
			"link": "a.story-link",
			"title": "h2.title",
			"image": "img.lead",
			"author": "span.byline",
			"date": "time.posted",
			"snippet": "p.summary"
		}
	}`)

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Daily Planet", site.Name)
	assert.Equal(t, "https://daily.example.com", site.BaseURL)
	assert.Equal(t, 10, site.Limit)
	assert.Equal(t, "div.story", site.Article.Container)
	assert.Equal(t, "time.posted", site.Article.Date)
}

func TestLoad_NameDefaultsToFilename(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "evening-post.json", `{
		"base_url": "https://evening.example.com",
		"article": {"container": "div.story", "link": "a", "title": "h2"}
	}`)

	site, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "evening-post", site.Name)
	assert.Equal(t, DefaultLimit, site.Limit)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "no base_url",
			body: `{"article": {"container": "div", "link": "a", "title": "h2"}}`,
			want: "base_url",
		},
		{
			name: "no container",
			body: `{"base_url": "https://x.example.com", "article": {"link": "a", "title": "h2"}}`,
			want: "article.container",
		},
		{
			name: "no link",
			body: `{"base_url": "https://x.example.com", "article": {"container": "div", "title": "h2"}}`,
			want: "article.link",
		},
		{
			name: "no title",
			body: `{"base_url": "https://x.example.com", "article": {"container": "div", "link": "a"}}`,
			want: "article.title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "bad.json", tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.json", `{not json at all`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDir_SkipsInvalidAndNonJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "beta.json", `{
		"base_url": "https://beta.example.com",
		"article": {"container": "div", "link": "a", "title": "h2"}
	}`)
	writeConfig(t, dir, "alpha.json", `{
		"base_url": "https://alpha.example.com",
		"article": {"container": "div", "link": "a", "title": "h2"}
	}`)
	writeConfig(t, dir, "broken.json", `{oops`)
	writeConfig(t, dir, "notes.txt", `not a config`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0o755))

	sites, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, sites, 2)

	// Deterministic order by filename.
	assert.Equal(t, "alpha", sites[0].Name)
	assert.Equal(t, "beta", sites[1].Name)
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	sites, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, sites)
}
