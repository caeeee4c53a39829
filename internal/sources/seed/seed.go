// Package seed reads a YAML file that replaces the built-in default engines
// and pinned sites:
//
//	engines:
//	  - name: Kagi
//	    url: https://kagi.com/search?q=%s
//	pins:
//	  - name: Grafana
//	    url: grafana.lan
//	block_domains:
//	  - csdn.net
//
// block_domains are excluded from the built-in web engines.
package seed

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

// File is the decoded seed file. Either list may be omitted, in which case
// the built-in list stays in effect.
type File struct {
	Engines []EngineSeed      `yaml:"engines"`
	Pins    []domain.SiteInput `yaml:"pins"`

	BlockDomains []string `yaml:"block_domains"`
}

type EngineSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

func (l *Loader) Path() string { return l.filePath }

// Load reads and validates the file. Template tokens such as {{VAR}} are
// blanked before parsing.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	data = templateVar.ReplaceAll(data, []byte(`""`))

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", l.filePath, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, e := range f.Engines {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.URL) == "" {
			return fmt.Errorf("engine #%d needs a name and a url", i+1)
		}
	}
	for i, p := range f.Pins {
		if !p.Valid() {
			return fmt.Errorf("pin #%d needs a name and a url", i+1)
		}
	}
	return nil
}

// EngineList converts the seeded engines. Ids are kept when given; the
// catalog assigns the missing ones.
func (f *File) EngineList() []domain.Engine {
	if len(f.Engines) == 0 {
		return nil
	}
	out := make([]domain.Engine, len(f.Engines))
	for i, e := range f.Engines {
		out[i] = domain.Engine{
			ID:   strings.TrimSpace(e.ID),
			Name: strings.TrimSpace(e.Name),
			URL:  strings.TrimSpace(e.URL),
			Icon: strings.TrimSpace(e.Icon),
		}
	}
	return out
}

// SiteList converts the seeded pins, normalized like user input.
func (f *File) SiteList() []domain.PinnedSite {
	if len(f.Pins) == 0 {
		return nil
	}
	out := make([]domain.PinnedSite, len(f.Pins))
	for i, p := range f.Pins {
		out[i] = p.Site("")
	}
	return out
}
