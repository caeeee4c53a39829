package domain

import "strings"

// PinnedSite is a shortcut tile on the start page.
type PinnedSite struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Favicon string `json:"favicon"`
}

// SiteInput is what a user types into the add/edit dialog.
type SiteInput struct {
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url" yaml:"url"`
	Favicon string `json:"favicon,omitempty" yaml:"favicon,omitempty"`
}

// Valid reports whether both name and url are present.
func (in SiteInput) Valid() bool {
	return strings.TrimSpace(in.Name) != "" && strings.TrimSpace(in.URL) != ""
}

// Site builds the stored record: the URL gets a scheme when it lacks one and
// a blank favicon is derived from the URL origin. A URL whose origin cannot
// be derived leaves the favicon blank.
func (in SiteInput) Site(id string) PinnedSite {
	url := NormalizeURL(in.URL)
	favicon := strings.TrimSpace(in.Favicon)
	if favicon == "" {
		favicon = FaviconURL(url)
	}
	return PinnedSite{
		ID:      id,
		Name:    strings.TrimSpace(in.Name),
		URL:     url,
		Favicon: favicon,
	}
}
