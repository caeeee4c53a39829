package homepage

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

var ErrNoSites = errors.New("no valid sites found in homepage config")

// BookmarkSites converts bookmarks to pinned sites in file order. A bookmark
// is named by its abbr when set, else by its key; entries without href are
// skipped.
func BookmarkSites(cfg BookmarksConfig) ([]domain.PinnedSite, error) {
	var out []domain.PinnedSite
	for _, group := range cfg {
		for _, groupName := range sortedKeys(group) {
			for _, bookmark := range group[groupName] {
				for _, name := range sortedKeys(bookmark) {
					entries := bookmark[name]
					if len(entries) == 0 || strings.TrimSpace(entries[0].Href) == "" {
						continue
					}
					e := entries[0]
					label := e.Abbr
					if strings.TrimSpace(label) == "" {
						label = name
					}
					out = appendUnique(out, site(label, e.Href, e.Icon))
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSites
	}
	return out, nil
}

// ServiceSites converts services to pinned sites in file order. Services
// whose href has no host are skipped.
func ServiceSites(cfg ServicesConfig) ([]domain.PinnedSite, error) {
	var out []domain.PinnedSite
	for _, group := range cfg {
		for _, groupName := range sortedKeys(group) {
			for _, svc := range group[groupName] {
				for _, name := range sortedKeys(svc) {
					props := svc[name]
					if domain.Origin(props.Href) == "" {
						continue
					}
					out = appendUnique(out, site(name, props.Href, props.Icon))
				}
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSites
	}
	return out, nil
}

// site builds a pinned site whose id is derived from its url, so reloading
// the same file yields the same ids. Homepage icon names (e.g. "github.png")
// are not URLs and fall back to the favicon.
func site(name, href, icon string) domain.PinnedSite {
	if !strings.HasPrefix(strings.ToLower(icon), "http") {
		icon = ""
	}
	in := domain.SiteInput{Name: name, URL: href, Favicon: icon}
	return in.Site(domain.StableID("hp", domain.NormalizeURL(href)))
}

// appendUnique drops a site whose url was already imported.
func appendUnique(list []domain.PinnedSite, s domain.PinnedSite) []domain.PinnedSite {
	for _, existing := range list {
		if existing.ID == s.ID {
			return list
		}
	}
	return append(list, s)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
