package defaults

import (
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// BuiltinEngines returns the first-run engine list. The general web engines
// exclude every domain in blocked from their results. Ids are assigned by
// the catalog.
func BuiltinEngines(blocked []string) []domain.Engine {
	exclude := ExcludeSites(blocked)
	return []domain.Engine{
		{Name: "Bing", URL: "https://www.bing.com/search?q=%s" + exclude},
		{Name: "DuckDuckGo", URL: "https://duckduckgo.com/?q=%s" + exclude},
		{Name: "Google", URL: "https://www.google.com/search?q=%s" + exclude},
		{Name: "Github", URL: "https://github.com/search?type=repositories&q=%s"},
		{Name: "Youtube", URL: "https://www.youtube.com/results?search_query=%s"},
		{Name: "Bilibili", URL: "https://search.bilibili.com/all?keyword=%s"},
		{Name: "StackOverflow", URL: "https://stackoverflow.com/search?q=%s"},
		{Name: "NPM", URL: "https://www.npmjs.com/search?q=%s"},
	}
}

// BuiltinSites returns the first-run pinned sites.
func BuiltinSites() []domain.PinnedSite {
	return []domain.PinnedSite{
		{Name: "GitHub", URL: "https://github.com", Favicon: "https://github.com/favicon.ico"},
		{Name: "MDN", URL: "https://developer.mozilla.org", Favicon: "https://developer.mozilla.org/favicon.ico"},
	}
}

// ExcludeSites renders blocked as a query suffix of "-site:" operators,
// already percent-encoded so it can follow the query placeholder, e.g.
// "%20-site:a.com%20-site:b.org". Entries are lower-cased, blanks and
// repeats dropped, and anything that is not a bare host name ignored.
func ExcludeSites(blocked []string) string {
	var b strings.Builder
	seen := make(map[string]bool, len(blocked))
	for _, d := range blocked {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || seen[d] || !hostLike(d) {
			continue
		}
		seen[d] = true
		b.WriteString("%20-site:")
		b.WriteString(d)
	}
	return b.String()
}

func hostLike(d string) bool {
	for i := 0; i < len(d); i++ {
		c := d[i]
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' || c == '.' || c == '-') {
			return false
		}
	}
	return strings.Contains(d, ".")
}
