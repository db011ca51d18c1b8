package profile

import (
	"os"
	"sort"

	"github.com/arthur-debert/macsetup/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads and parses the configuration document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "configuration file not found: %s", path).
				WithRemediation("Create config.yaml in the config directory or point --config-dir at one.")
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read configuration file %s", path)
	}
	return Parse(data)
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration file")
	}
	if doc.Profiles == nil {
		doc.Profiles = map[string]*Profile{}
	}
	for name, p := range doc.Profiles {
		if p == nil {
			p = &Profile{}
			doc.Profiles[name] = p
		}
		p.Name = name
	}
	return &doc, nil
}

// Names returns the profile names, sorted.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Profiles))
	for name := range d.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named profile with its `extends` chain applied. A
// child overrides its parent field by field: applications as a whole,
// dotfiles and preferences when the child lists any, description when set.
func (d *Document) Resolve(name string) (*Profile, error) {
	return d.resolve(name, map[string]bool{})
}

func (d *Document) resolve(name string, visiting map[string]bool) (*Profile, error) {
	p, ok := d.Profiles[name]
	if !ok {
		return nil, errors.Newf(errors.ErrProfileNotFound, "profile %q not found", name).
			WithDetail("available", d.Names())
	}
	if p.Extends == "" {
		out := *p
		return &out, nil
	}
	if visiting[name] {
		return nil, errors.Newf(errors.ErrProfileCycle, "profile %q extends itself through %q", name, p.Extends)
	}
	visiting[name] = true

	parent, err := d.resolve(p.Extends, visiting)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrProfileNotFound) {
			return nil, errors.Wrapf(err, errors.ErrProfileNotFound,
				"parent profile %q of %q not found", p.Extends, name)
		}
		return nil, err
	}

	merged := Profile{
		Name:         p.Name,
		Description:  p.Description,
		Extends:      p.Extends,
		Applications: p.Applications,
		Dotfiles:     p.Dotfiles,
		Preferences:  p.Preferences,
	}
	if merged.Description == "" {
		merged.Description = parent.Description
	}
	if merged.Applications == nil {
		merged.Applications = parent.Applications
	}
	if len(merged.Dotfiles) == 0 {
		merged.Dotfiles = parent.Dotfiles
	}
	if len(merged.Preferences) == 0 {
		merged.Preferences = parent.Preferences
	}
	return &merged, nil
}
