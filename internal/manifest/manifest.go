// Package manifest reads and writes TOML catalog manifests. A manifest
// declares systems, parts with their features, assemblies with their items,
// and connectors, all referring to each other by local string keys instead
// of database ids.
//
// A minimal manifest:
//
//	[[part]]
//	key = "leg"
//	name = "Leg"
//	file = "leg.step"
//
//	  [[part.feature]]
//	  name = "foot"
//
//	[[assembly]]
//	key = "table"
//	name = "Table"
//	file = "table.asm"
//
//	  [[assembly.item]]
//	  instance = "leg1"
//	  part = "leg"
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/sysarch/internal/model"
)

// Manifest is a whole catalog fragment.
type Manifest struct {
	Systems    []System    `toml:"system,omitempty"`
	Parts      []Part      `toml:"part,omitempty"`
	Assemblies []Assembly  `toml:"assembly,omitempty"`
	Connectors []Connector `toml:"connector,omitempty"`

	// Source is the file the manifest was loaded from, if any.
	Source string `toml:"-"`
}

// System declares a system. Overall names the key of its overall assembly.
type System struct {
	Key     string `toml:"key"`
	Name    string `toml:"name"`
	Overall string `toml:"overall,omitempty"`
}

// Part declares a part and the features it owns.
type Part struct {
	Key      string    `toml:"key"`
	Name     string    `toml:"name"`
	File     string    `toml:"file"`
	Features []Feature `toml:"feature,omitempty"`
}

// Feature declares a feature of the enclosing part. When Key is empty the
// feature is addressed as "<part key>.<name>".
type Feature struct {
	Key  string `toml:"key,omitempty"`
	Name string `toml:"name"`
}

// Assembly declares an assembly and the instances it contains. System and
// Parent are keys of a declared system and assembly.
type Assembly struct {
	Key    string `toml:"key"`
	Name   string `toml:"name"`
	File   string `toml:"file"`
	Image  string `toml:"image,omitempty"`
	System string `toml:"system,omitempty"`
	Parent string `toml:"parent,omitempty"`
	Items  []Item `toml:"item,omitempty"`
}

// Item declares one instance inside the enclosing assembly. Exactly one of
// Part and Sub must be set. When Key is empty the item is addressed as
// "<assembly key>/<instance>".
type Item struct {
	Key      string `toml:"key,omitempty"`
	Instance string `toml:"instance"`
	Part     string `toml:"part,omitempty"`
	Sub      string `toml:"sub,omitempty"`
}

// Connector declares a typed relation between a feature on one item and a
// feature on another. All four references are keys.
type Connector struct {
	Type     string `toml:"type"`
	Feature1 string `toml:"feature1"`
	Item1    string `toml:"item1"`
	Feature2 string `toml:"feature2"`
	Item2    string `toml:"item2"`
}

// FeatureKey returns the key the feature is addressed by.
func (f Feature) FeatureKey(partKey string) string {
	if f.Key != "" {
		return f.Key
	}
	return partKey + "." + f.Name
}

// ItemKey returns the key the item is addressed by.
func (it Item) ItemKey(assemblyKey string) string {
	if it.Key != "" {
		return it.Key
	}
	return assemblyKey + "/" + it.Instance
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	m.Source = path
	return m, nil
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: unknown field: %s", model.ErrInvalidArgument, strict.String())
		}
		return nil, fmt.Errorf("%w: parse: %v", model.ErrInvalidArgument, err)
	}
	return &m, nil
}

// Write encodes m as TOML.
func Write(w io.Writer, m *Manifest) error {
	enc := toml.NewEncoder(w).SetIndentTables(true)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	return nil
}

// Check verifies that every key is present and unique and that every
// reference names a declared key. All problems are reported together; each
// wraps model.ErrInvalidArgument.
func (m *Manifest) Check() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidArgument}, args...)...))
	}

	keys := make(map[string]string) // key -> kind
	declare := func(kind, key string) {
		if key == "" {
			bad("%s with empty key", kind)
			return
		}
		if prev, ok := keys[key]; ok {
			bad("duplicate key %q (%s and %s)", key, prev, kind)
			return
		}
		keys[key] = kind
	}

	for _, s := range m.Systems {
		declare("system", s.Key)
		if s.Name == "" {
			bad("system %q has no name", s.Key)
		}
	}
	for _, p := range m.Parts {
		declare("part", p.Key)
		if p.Name == "" {
			bad("part %q has no name", p.Key)
		}
		for _, f := range p.Features {
			if f.Name == "" {
				bad("part %q has a feature with no name", p.Key)
				continue
			}
			declare("feature", f.FeatureKey(p.Key))
		}
	}
	for _, a := range m.Assemblies {
		declare("assembly", a.Key)
		if a.Name == "" {
			bad("assembly %q has no name", a.Key)
		}
	}
	for _, a := range m.Assemblies {
		for _, it := range a.Items {
			if it.Instance == "" {
				bad("assembly %q has an item with no instance name", a.Key)
				continue
			}
			declare("item", it.ItemKey(a.Key))
		}
	}

	ref := func(owner, field, key, want string) {
		if key == "" {
			return
		}
		if kind, ok := keys[key]; !ok || kind != want {
			bad("%s: %s %q is not a declared %s", owner, field, key, want)
		}
	}
	for _, s := range m.Systems {
		ref("system "+s.Key, "overall", s.Overall, "assembly")
	}
	for _, a := range m.Assemblies {
		owner := "assembly " + a.Key
		ref(owner, "system", a.System, "system")
		ref(owner, "parent", a.Parent, "assembly")
		for _, it := range a.Items {
			itemOwner := "item " + it.ItemKey(a.Key)
			switch {
			case it.Part == "" && it.Sub == "":
				bad("%s: either part or sub must be set", itemOwner)
			case it.Part != "" && it.Sub != "":
				bad("%s: part and sub are mutually exclusive", itemOwner)
			}
			ref(itemOwner, "part", it.Part, "part")
			ref(itemOwner, "sub", it.Sub, "assembly")
		}
	}
	for i, c := range m.Connectors {
		owner := fmt.Sprintf("connector %d", i+1)
		for _, r := range []struct{ field, key, want string }{
			{"feature1", c.Feature1, "feature"},
			{"item1", c.Item1, "item"},
			{"feature2", c.Feature2, "feature"},
			{"item2", c.Item2, "item"},
		} {
			if r.key == "" {
				bad("%s: %s is required", owner, r.field)
				continue
			}
			ref(owner, r.field, r.key, r.want)
		}
	}
	return errors.Join(errs...)
}
