// Package site bundles the per-site format constants: domains, sort orders
// and the extraction markers the resolver looks for. Keeping them in one
// profile localizes the edit needed when the site's markup changes, and a
// YAML file can override any field without a rebuild.
package site

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/batoget/batodl/bato/cipher"
)

// Profile describes one supported site.
type Profile struct {
	Name       string         `yaml:"name"`
	Scheme     string         `yaml:"scheme"`
	Domain     string         `yaml:"domain"`
	Mirrors    []string       `yaml:"mirrors"`
	SortOrders []string       `yaml:"sort_orders"`
	Markers    cipher.Markers `yaml:"markers"`
}

// Default returns the bato.to profile.
func Default() *Profile {
	return &Profile{
		Name:    "batoto",
		Scheme:  "https",
		Domain:  "bato.to",
		Mirrors: []string{"bato.si"},
		SortOrders: []string{
			"update.za", // recently updated (default)
			"update.az",
			"create.za",
			"create.az",
			"name.az",
			"name.za",
			"views.za",
			"views.az",
		},
		Markers: cipher.DefaultMarkers(),
	}
}

// Load reads a YAML profile from path. Fields absent from the file keep
// their defaults, so a profile that only overrides the domain stays valid.
func Load(path string) (*Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	def := Default()
	if p.Scheme == "" {
		p.Scheme = def.Scheme
	}
	if p.Domain == "" {
		p.Domain = def.Domain
	}
	if len(p.SortOrders) == 0 {
		p.SortOrders = def.SortOrders
	}
	if p.Markers.ScriptMarker == "" {
		p.Markers.ScriptMarker = def.Markers.ScriptMarker
	}
	if p.Markers.PasswordVar == "" {
		p.Markers.PasswordVar = def.Markers.PasswordVar
	}
	if p.Markers.WordVar == "" {
		p.Markers.WordVar = def.Markers.WordVar
	}
	return p, nil
}

// BaseURL returns the URL of the primary domain without a trailing slash.
// The scheme defaults to https; an empty Scheme keeps zero-value profiles
// usable.
func (p *Profile) BaseURL() string {
	scheme := p.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + p.Domain
}

// Domains returns the primary domain followed by its mirrors.
func (p *Profile) Domains() []string {
	return append([]string{p.Domain}, p.Mirrors...)
}

// AbsURL resolves a site-relative path against the primary domain. Absolute
// and protocol-relative URLs pass through unchanged except for scheme fixup.
func (p *Profile) AbsURL(path string) string {
	switch {
	case path == "":
		return p.BaseURL()
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "//"):
		scheme := p.Scheme
		if scheme == "" {
			scheme = "https"
		}
		return scheme + ":" + path
	case strings.HasPrefix(path, "/"):
		return p.BaseURL() + path
	default:
		return p.BaseURL() + "/" + path
	}
}
