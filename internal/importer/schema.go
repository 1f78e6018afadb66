package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level YAML structure for site import.
type ImportSchema struct {
	Site  SiteImport   `yaml:"site"`
	Pages []PageImport `yaml:"pages"`
	Menus []MenuImport `yaml:"menus"`
}

// SiteImport defines the site-level fields in the import file.
type SiteImport struct {
	Name         string `yaml:"name"`
	Host         string `yaml:"host,omitempty"`
	RelativePath string `yaml:"relative_path,omitempty"`
	Default      bool   `yaml:"default,omitempty"`
}

// PageImport defines a page. Parents must be listed before their children.
type PageImport struct {
	Ref         string  `yaml:"ref"`
	ParentRef   *string `yaml:"parent_ref,omitempty"`
	Name        string  `yaml:"name"`
	URL         string  `yaml:"url"`
	Route       string  `yaml:"route,omitempty"`
	RedirectURL string  `yaml:"redirect_url,omitempty"`
	Position    int     `yaml:"position,omitempty"`
	Hidden      bool    `yaml:"hidden,omitempty"`
	Disabled    bool    `yaml:"disabled,omitempty"`
}

// MenuImport defines a menu position and its items.
type MenuImport struct {
	Name     string           `yaml:"name"`
	Header   string           `yaml:"header,omitempty"`
	Disabled bool             `yaml:"disabled,omitempty"`
	Items    []MenuItemImport `yaml:"items"`
}

// MenuItemImport defines one menu item; Children nest recursively.
type MenuItemImport struct {
	Name        string           `yaml:"name"`
	PageRef     string           `yaml:"page_ref,omitempty"`
	ExternalURL string           `yaml:"external_url,omitempty"`
	Class       string           `yaml:"class,omitempty"`
	Header      string           `yaml:"header,omitempty"`
	Template    string           `yaml:"template,omitempty"`
	Disabled    bool             `yaml:"disabled,omitempty"`
	Locked      bool             `yaml:"locked,omitempty"`
	Children    []MenuItemImport `yaml:"children,omitempty"`
}

// LoadImportSchema reads and parses a site import YAML file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema parses YAML, rejecting unknown fields.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing import file: empty document")
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
