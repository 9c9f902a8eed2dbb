package site

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var envPlaceholder = regexp.MustCompile(`\{\{\s*(FOLIO_VAR_[A-Z0-9_]+)\s*\}\}`)

// Loader reads the site file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader. An empty path serves the builtin site.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the watched file path, empty for the builtin site.
func (l *Loader) Path() string { return l.filePath }

// Load reads, parses and validates the site file.
func (l *Loader) Load() (Site, error) {
	if l.filePath == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Site{}, fmt.Errorf("failed to read site file: %w", err)
	}

	data = expandPlaceholders(data)

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Site{}, fmt.Errorf("failed to parse site yaml: %w", err)
	}

	return Build(f)
}

// expandPlaceholders replaces {{FOLIO_VAR_...}} with the environment value.
// Example: {{FOLIO_VAR_EMAIL}} -> me@example.com
func expandPlaceholders(data []byte) []byte {
	return envPlaceholder.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envPlaceholder.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Build validates a parsed file and fills defaults.
func Build(f File) (Site, error) {
	if len(f.Sections) == 0 {
		return Site{}, errors.New("site has no sections")
	}

	seen := make(map[string]bool, len(f.Sections))
	remote := 0
	for i := range f.Sections {
		s := &f.Sections[i]
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return Site{}, fmt.Errorf("section %d has no id", i)
		}
		if strings.ContainsAny(s.ID, "# \t") {
			return Site{}, fmt.Errorf("section id %q is not a valid fragment", s.ID)
		}
		if seen[s.ID] {
			return Site{}, fmt.Errorf("duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" {
			s.Title = s.ID
		}
		if s.Remote {
			remote++
		}
	}
	if remote > 1 {
		return Site{}, fmt.Errorf("only one remote section is supported, got %d", remote)
	}

	def := strings.TrimSpace(f.Default)
	if def == "" {
		def = f.Sections[0].ID
	}
	if !seen[def] {
		return Site{}, fmt.Errorf("default section %q is not declared", def)
	}

	return Site{
		Sections: f.Sections,
		Default:  def,
		Messages: f.Messages.WithDefaults(),
	}, nil
}
