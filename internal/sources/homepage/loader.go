// Package homepage imports the bookmarks.yaml and services.yaml files of a
// Homepage dashboard (gethomepage.dev) as default pinned sites.
package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// stripTemplateVariables replaces {{HOMEPAGE_VAR_...}} tokens with an empty
// YAML string.
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}

func readYAML(path, what string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", what, err)
	}
	if err := yaml.Unmarshal(stripTemplateVariables(data), out); err != nil {
		return fmt.Errorf("failed to parse %s yaml: %w", what, err)
	}
	return nil
}

// BookmarkLoader reads a bookmarks.yaml file.
type BookmarkLoader struct {
	filePath string
}

func NewBookmarkLoader(filePath string) *BookmarkLoader {
	return &BookmarkLoader{filePath: filePath}
}

func (l *BookmarkLoader) Path() string { return l.filePath }

func (l *BookmarkLoader) Load() (BookmarksConfig, error) {
	var cfg BookmarksConfig
	if err := readYAML(l.filePath, "bookmarks", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServiceLoader reads a services.yaml file.
type ServiceLoader struct {
	filePath string
}

func NewServiceLoader(filePath string) *ServiceLoader {
	return &ServiceLoader{filePath: filePath}
}

func (l *ServiceLoader) Path() string { return l.filePath }

func (l *ServiceLoader) Load() (ServicesConfig, error) {
	var cfg ServicesConfig
	if err := readYAML(l.filePath, "services", &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
