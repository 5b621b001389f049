// Package siren models the hypermedia documents returned by the Brightspace
// APIs: entities with a class list, free-form properties, nested entities and
// links.
package siren

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	apperrors "elearn/internal/platform/errors"
)

type Entity struct {
	Class      []string   `json:"class,omitempty"`
	Rel        []string   `json:"rel,omitempty"`
	Href       string     `json:"href,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	Entities   []Entity   `json:"entities,omitempty"`
	Links      []Link     `json:"links,omitempty"`
	// Malformed counts child entities dropped because they did not match
	// the entity shape.
	Malformed int `json:"-"`
}

// UnmarshalJSON decodes child entities one at a time so a single malformed
// child is dropped and counted instead of failing the whole document.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw struct {
		Class      []string          `json:"class"`
		Rel        []string          `json:"rel"`
		Href       string            `json:"href"`
		Properties Properties        `json:"properties"`
		Entities   []json.RawMessage `json:"entities"`
		Links      []Link            `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entity{
		Class:      raw.Class,
		Rel:        raw.Rel,
		Href:       raw.Href,
		Properties: raw.Properties,
		Links:      raw.Links,
	}
	for _, item := range raw.Entities {
		child := Entity{}
		if err := json.Unmarshal(item, &child); err != nil {
			e.Malformed++
			continue
		}
		e.Entities = append(e.Entities, child)
	}
	return nil
}

type Link struct {
	Rel  []string `json:"rel"`
	Href string   `json:"href"`
}

// Properties keeps values undecoded so a node with an unexpected value shape
// does not fail the whole document.
type Properties map[string]json.RawMessage

func Decode(payload []byte) (Entity, error) {
	entity := Entity{}
	if err := json.Unmarshal(payload, &entity); err != nil {
		return Entity{}, fmt.Errorf("%w: decode entity: %v", apperrors.ErrParse, err)
	}
	return entity, nil
}

// Has reports whether the property key is present and not null.
func (p Properties) Has(key string) bool {
	raw, ok := p[key]
	return ok && string(raw) != "null"
}

// String returns a string property.
func (p Properties) String(key string) (string, bool) {
	out := ""
	if !p.Decode(key, &out) {
		return "", false
	}
	return out, true
}

// Decode unmarshals a property into v and reports success.
func (p Properties) Decode(key string, v any) bool {
	if !p.Has(key) {
		return false
	}
	return json.Unmarshal(p[key], v) == nil
}

// HasClass reports whether every name is in the entity class list.
func (e Entity) HasClass(names ...string) bool {
	for _, name := range names {
		if !slices.Contains(e.Class, name) {
			return false
		}
	}
	return true
}

// FirstLink returns the first link whose primary rel contains marker.
func (e Entity) FirstLink(marker string) (Link, bool) {
	for _, link := range e.Links {
		if len(link.Rel) > 0 && strings.Contains(link.Rel[0], marker) {
			return link, true
		}
	}
	return Link{}, false
}

// LastSegment returns the final path segment of the link target.
func (l Link) LastSegment() (string, error) {
	u, err := url.Parse(l.Href)
	if err != nil {
		return "", fmt.Errorf("%w: link %q: %v", apperrors.ErrParse, l.Href, err)
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" || seg == "" {
		return "", fmt.Errorf("%w: link %q has no path", apperrors.ErrParse, l.Href)
	}
	return seg, nil
}
