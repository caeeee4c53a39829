package homepage

// BookmarkEntry is the single property block under a bookmark name.
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarkGroup maps a group name to its bookmarks. Each bookmark is a
// one-key map from its name to a one-element list of entries:
//
//	- Developer:
//	    - Github:
//	        - abbr: GH
//	          href: https://github.com/
type BookmarkGroup map[string][]map[string][]BookmarkEntry

type BookmarksConfig []BookmarkGroup

// ServiceProps holds the service fields the start page uses. Widgets,
// monitors and the rest are ignored.
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ServicesConfig mirrors services.yaml: a list of groups, each a list of
// one-key maps from service name to its properties.
type ServicesConfig []map[string][]map[string]ServiceProps
