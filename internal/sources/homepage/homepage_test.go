package homepage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const bookmarksYAML = `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Docs:
        - icon: https://cdn.example/docs.png
          href: docs.example.com
- Social:
    - Reddit:
        - icon: reddit.png
          href: {{HOMEPAGE_VAR_REDDIT_URL}}
    - Mastodon:
        - href: https://mastodon.social
`

func TestBookmarkLoaderAndSites(t *testing.T) {
	cfg, err := NewBookmarkLoader(writeFile(t, "bookmarks.yaml", bookmarksYAML)).Load()
	require.NoError(t, err)

	sites, err := BookmarkSites(cfg)
	require.NoError(t, err)
	require.Len(t, sites, 3)

	// file order across groups, abbr preferred over the key
	assert.Equal(t, "GH", sites[0].Name)
	assert.Equal(t, "https://github.com/favicon.ico", sites[0].Favicon)

	assert.Equal(t, "Docs", sites[1].Name)
	assert.Equal(t, "https://docs.example.com", sites[1].URL)
	assert.Equal(t, "https://cdn.example/docs.png", sites[1].Favicon)

	assert.Equal(t, "Mastodon", sites[2].Name)
	for _, s := range sites {
		assert.NotEmpty(t, s.ID)
	}
}

func TestBookmarkSitesStableIDs(t *testing.T) {
	path := writeFile(t, "bookmarks.yaml", bookmarksYAML)

	load := func() []string {
		cfg, err := NewBookmarkLoader(path).Load()
		require.NoError(t, err)
		sites, err := BookmarkSites(cfg)
		require.NoError(t, err)
		ids := make([]string, len(sites))
		for i, s := range sites {
			ids[i] = s.ID
		}
		return ids
	}
	assert.Equal(t, load(), load())
}

func TestBookmarkSitesDeduplicatesURLs(t *testing.T) {
	cfg := BookmarksConfig{
		{"A": {{"One": {{Href: "https://same.example"}}}}},
		{"B": {{"Two": {{Href: "same.example"}}}}},
	}
	sites, err := BookmarkSites(cfg)
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestBookmarkSitesEmpty(t *testing.T) {
	_, err := BookmarkSites(BookmarksConfig{})
	assert.ErrorIs(t, err, ErrNoSites)
}

func TestServiceLoaderAndSites(t *testing.T) {
	content := `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: DNS blocking
        widget:
          type: adguard
    - Broken:
        href: not-a-valid-url
    - Templated:
        href: {{HOMEPAGE_VAR_URL}}
`
	cfg, err := NewServiceLoader(writeFile(t, "services.yaml", content)).Load()
	require.NoError(t, err)

	sites, err := ServiceSites(cfg)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "AdGuard Home", sites[0].Name)
	assert.Equal(t, "https://adguard.domain.ext/favicon.ico", sites[0].Favicon)
}

func TestServiceSitesNoneValid(t *testing.T) {
	cfg := ServicesConfig{{"G": {{"Bad": {Href: "nope"}}}}}
	_, err := ServiceSites(cfg)
	assert.ErrorIs(t, err, ErrNoSites)
}

func TestLoaderFileNotFound(t *testing.T) {
	_, err := NewBookmarkLoader("/nonexistent/bookmarks.yaml").Load()
	assert.Error(t, err)
	_, err = NewServiceLoader("/nonexistent/services.yaml").Load()
	assert.Error(t, err)
}

func TestStripTemplateVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single variable", input: "url: {{HOMEPAGE_VAR_URL}}", want: `url: ""`},
		{name: "two variables", input: "a: {{X}}\nb: {{Y}}", want: "a: \"\"\nb: \"\""},
		{name: "no variables", input: "plain text", want: "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(stripTemplateVariables([]byte(tt.input))))
		})
	}
}
