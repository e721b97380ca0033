// Configuration file for earmuffs: login details and the declarative list specifications.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bluesky-social/earmuffs/atproto/syntax"
	"github.com/bluesky-social/earmuffs/blocklist"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "earmuffs.json"
	xdgRelPath      = "earmuffs/earmuffs.json"
)

var ErrNoConfig = errors.New("no config file found")

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// Picks the format from a file name: ".yaml" and ".yml" are YAML, anything else is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type Config struct {
	Auth  Auth   `json:"auth" yaml:"auth"`
	Lists []List `json:"lists" yaml:"lists"`
}

type Auth struct {
	Handle string `json:"handle" yaml:"handle"`
	// optional; may come from the environment instead
	AppPassword string `json:"app_password,omitempty" yaml:"app_password,omitempty"`
	PDSHost     string `json:"pds_host,omitempty" yaml:"pds_host,omitempty"`
}

type List struct {
	Name        string   `json:"name" yaml:"name"`
	Purpose     string   `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Includes    []Source `json:"includes" yaml:"includes"`
	Excludes    []Source `json:"excludes,omitempty" yaml:"excludes,omitempty"`
}

// One source object. Exactly one field must be set. FollowedBy is the older spelling of FollowsOf.
type Source struct {
	FollowersOf *string   `json:"followers_of,omitempty" yaml:"followers_of,omitempty"`
	FollowsOf   *string   `json:"follows_of,omitempty" yaml:"follows_of,omitempty"`
	FollowedBy  *string   `json:"followed_by,omitempty" yaml:"followed_by,omitempty"`
	Literal     *[]string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Resolves the config file location: the explicit path if given, then [DefaultFileName] in the working directory, then the XDG config directories.
func FindPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, nil
	}
	p, err := xdg.SearchConfigFile(xdgRelPath)
	if err != nil {
		return "", fmt.Errorf("%w (looked for ./%s and $XDG_CONFIG_HOME/%s)", ErrNoConfig, DefaultFileName, xdgRelPath)
	}
	return p, nil
}

// Reads, parses, and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(bytes.NewReader(data), FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parses and validates a config document. Unknown fields are an error.
func Parse(r io.Reader, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.Handle != "" {
		if _, err := syntax.ParseAtIdentifier(c.Auth.Handle); err != nil {
			return fmt.Errorf("auth.handle: %w", err)
		}
	}
	if len(c.Lists) == 0 {
		return fmt.Errorf("no lists configured")
	}
	_, err := c.Blocklists()
	return err
}

// Converts every configured list to a [blocklist.BlocklistSpec], checking names are unique and sources are well-formed.
func (c *Config) Blocklists() ([]blocklist.BlocklistSpec, error) {
	seen := make(map[string]bool, len(c.Lists))
	out := make([]blocklist.BlocklistSpec, 0, len(c.Lists))
	for i, l := range c.Lists {
		spec, err := l.Spec()
		if err != nil {
			return nil, fmt.Errorf("lists[%d]: %w", i, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("lists[%d]: duplicate list name %q", i, spec.Name)
		}
		seen[spec.Name] = true
		out = append(out, spec)
	}
	return out, nil
}

func (l List) Spec() (blocklist.BlocklistSpec, error) {
	spec := blocklist.BlocklistSpec{
		Name:        l.Name,
		Description: l.Description,
	}
	if strings.TrimSpace(l.Name) == "" {
		return spec, fmt.Errorf("list name is required")
	}
	purpose, err := blocklist.ParsePurpose(l.Purpose)
	if err != nil {
		return spec, fmt.Errorf("list %q: %w", l.Name, err)
	}
	spec.Purpose = purpose

	for i, s := range l.Includes {
		src, err := s.Source()
		if err != nil {
			return spec, fmt.Errorf("list %q includes[%d]: %w", l.Name, i, err)
		}
		spec.Includes = append(spec.Includes, src)
	}
	for i, s := range l.Excludes {
		src, err := s.Source()
		if err != nil {
			return spec, fmt.Errorf("list %q excludes[%d]: %w", l.Name, i, err)
		}
		spec.Excludes = append(spec.Excludes, src)
	}
	return spec, spec.Validate()
}

func (s Source) Source() (blocklist.Source, error) {
	set := 0
	for _, p := range []*string{s.FollowersOf, s.FollowsOf, s.FollowedBy} {
		if p != nil {
			set++
		}
	}
	if s.Literal != nil {
		set++
	}
	if set != 1 {
		return blocklist.Source{}, fmt.Errorf("source must have exactly one of followers_of, follows_of, followed_by, literal (found %d)", set)
	}

	switch {
	case s.FollowersOf != nil:
		actor, err := syntax.ParseAtIdentifier(*s.FollowersOf)
		if err != nil {
			return blocklist.Source{}, fmt.Errorf("followers_of: %w", err)
		}
		return blocklist.FollowersOf(actor.Normalize()), nil
	case s.FollowsOf != nil, s.FollowedBy != nil:
		raw := s.FollowsOf
		if raw == nil {
			raw = s.FollowedBy
		}
		actor, err := syntax.ParseAtIdentifier(*raw)
		if err != nil {
			return blocklist.Source{}, fmt.Errorf("follows_of: %w", err)
		}
		return blocklist.FollowsOf(actor.Normalize()), nil
	default:
		refs := make([]syntax.AtIdentifier, 0, len(*s.Literal))
		for _, raw := range *s.Literal {
			ref, err := syntax.ParseAtIdentifier(raw)
			if err != nil {
				return blocklist.Source{}, fmt.Errorf("literal: %w", err)
			}
			refs = append(refs, ref.Normalize())
		}
		return blocklist.Literal(refs...), nil
	}
}
