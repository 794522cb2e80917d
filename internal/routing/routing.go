// Package routing resolves request paths to tenant slugs under one of three
// deployed topologies. The topologies diverged across deployments; here they
// are a single tagged variant selected by configuration.
package routing

import (
	"errors"
	"fmt"
	"strings"
)

// Topology selects how a request path is parsed into a tenant key.
type Topology int

const (
	// FlatSlug parses /:slug/* — the first segment is the slug.
	FlatSlug Topology = iota
	// KeyedSlug parses /:key/:slug/* — the routing key is extracted but not
	// dispatched on, matching the deployed behavior.
	KeyedSlug
	// VerticalTable parses /:prefix/:slug/* — the prefix selects a vertical
	// from a static table.
	VerticalTable
)

// ParseTopology maps a configuration string to a Topology.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "flat":
		return FlatSlug, nil
	case "keyed":
		return KeyedSlug, nil
	case "vertical":
		return VerticalTable, nil
	default:
		return 0, fmt.Errorf("unknown routing topology %q", s)
	}
}

// VerticalConfig binds a URL prefix to a data collection and a template root.
type VerticalConfig struct {
	Collection   string
	TemplateRoot string
}

// DefaultVerticals returns the process-wide vertical table. Fixed at startup;
// never mutated.
func DefaultVerticals() map[string]VerticalConfig {
	return map[string]VerticalConfig{
		"w": {Collection: "restro1", TemplateRoot: "restro"},
		"x": {Collection: "restro1", TemplateRoot: "restro_old"},
		"p": {Collection: "plumber", TemplateRoot: "plumbing_old"},
		"q": {Collection: "plumber", TemplateRoot: "plumbing"},
	}
}

var ErrMalformedPath = errors.New("malformed request path")
var ErrUnknownVertical = errors.New("unknown vertical prefix")

// Decision is the outcome of resolving a request path: the tenant slug, the
// remaining sub-resource path, and, under VerticalTable, the matched vertical.
type Decision struct {
	Slug     string
	SubPath  []string
	Vertical *VerticalConfig
}

// Resolver parses request paths under a fixed topology.
type Resolver struct {
	topology  Topology
	verticals map[string]VerticalConfig
}

// NewResolver creates a Resolver. The verticals table is only consulted under
// the VerticalTable topology.
func NewResolver(topology Topology, verticals map[string]VerticalConfig) *Resolver {
	return &Resolver{topology: topology, verticals: verticals}
}

// Resolve extracts the tenant slug from path. Segment indices follow the
// deployed URL shapes: splitting on "/" leaves an empty leading segment, so
// the first real segment is index 1 in every topology.
func (r *Resolver) Resolve(path string) (*Decision, error) {
	segments := strings.Split(path, "/")

	switch r.topology {
	case FlatSlug:
		if len(segments) < 2 || segments[1] == "" {
			return nil, ErrMalformedPath
		}
		return &Decision{Slug: segments[1], SubPath: segments[2:]}, nil

	case KeyedSlug:
		if len(segments) < 3 || segments[2] == "" {
			return nil, ErrMalformedPath
		}
		return &Decision{Slug: segments[2], SubPath: segments[3:]}, nil

	case VerticalTable:
		if len(segments) < 2 || segments[1] == "" {
			return nil, ErrMalformedPath
		}
		vertical, ok := r.verticals[segments[1]]
		if !ok {
			return nil, ErrUnknownVertical
		}
		if len(segments) < 3 || segments[2] == "" {
			return nil, ErrMalformedPath
		}
		return &Decision{Slug: segments[2], SubPath: segments[3:], Vertical: &vertical}, nil

	default:
		return nil, fmt.Errorf("unsupported topology %d", r.topology)
	}
}
