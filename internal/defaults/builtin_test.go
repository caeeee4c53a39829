package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

func TestExcludeSites(t *testing.T) {
	tests := []struct {
		name    string
		blocked []string
		want    string
	}{
		{"none", nil, ""},
		{"single", []string{"csdn.net"}, "%20-site:csdn.net"},
		{"normalized and deduplicated", []string{" CSDN.net", "csdn.net", "", "spam.example.org"}, "%20-site:csdn.net%20-site:spam.example.org"},
		{"not a host", []string{"a b.com", "evil.com&x=1", "localhost"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExcludeSites(tt.blocked))
		})
	}
}

func TestBuiltinEnginesBlockDomains(t *testing.T) {
	engines := BuiltinEngines([]string{"csdn.net", "spam.example.org"})

	byName := map[string]domain.Engine{}
	for _, e := range engines {
		byName[e.Name] = e
	}

	require.Contains(t, byName, "Google")
	assert.Equal(t,
		"https://www.google.com/search?q=cats%20near%20me%20-site:csdn.net%20-site:spam.example.org",
		domain.BuildSearchURL(byName["Google"].URL, "cats near me"))
	assert.Equal(t,
		"https://www.bing.com/search?q=%s%20-site:csdn.net%20-site:spam.example.org", byName["Bing"].URL)
	assert.Equal(t,
		"https://duckduckgo.com/?q=%s%20-site:csdn.net%20-site:spam.example.org", byName["DuckDuckGo"].URL)

	// only the general web engines carry the exclusions
	assert.Equal(t, "https://github.com/search?type=repositories&q=%s", byName["Github"].URL)
	assert.Equal(t, "https://www.npmjs.com/search?q=%s", byName["NPM"].URL)
}

func TestBuiltinEnginesWithoutBlocks(t *testing.T) {
	for _, e := range BuiltinEngines(nil) {
		assert.NotContains(t, e.URL, "-site:", e.Name)
	}
}
