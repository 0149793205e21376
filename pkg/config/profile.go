package config

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	gderrors "github.com/graphdraw/graphdraw/pkg/errors"
	"github.com/graphdraw/graphdraw/pkg/graph"
)

// Profiles is a set of named layout option presets. A profile is applied
// underneath a document's own options, so explicit document options win.
type Profiles map[string]graph.Options

type profilesFile struct {
	Profile map[string]map[string]any `toml:"profile"`
}

// LoadProfiles reads a TOML profiles file of the form
//
//	[profile.quality]
//	"iterations" = 2000
//	"cooling factor" = 0.98
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeNotFound, err, "read profiles file %q", path)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes a TOML profiles document.
func ParseProfiles(data []byte) (Profiles, error) {
	var f profilesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidDocument, err, "decode profiles")
	}
	out := make(Profiles, len(f.Profile))
	for name, opts := range f.Profile {
		p := graph.NewOptions()
		for k, v := range opts {
			p[k] = v
		}
		out[name] = p
	}
	return out, nil
}

// Names returns the profile names in sorted order.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply layers the named profile underneath opts: profile keys fill in
// only where opts has no value. The merged result is a new map.
func (p Profiles) Apply(name string, opts graph.Options) (graph.Options, error) {
	profile, ok := p[name]
	if !ok {
		return nil, gderrors.New(gderrors.ErrCodeNotFound, "unknown layout profile %q", name)
	}
	merged := profile.Clone()
	for k, v := range opts {
		merged[k] = v
	}
	return merged, nil
}
