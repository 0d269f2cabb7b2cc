package config

import "sort"

type Preset struct {
	Description string
	Apply       func(*Config)
}

var Presets = map[string]map[string]Preset{
	"neutron": {
		"physical": {
			Description: "neutron rest mass 939.565 MeV",
			Apply:       func(c *Config) { c.ParticleMass = 939.565 },
		},
		"light": {
			Description: "hypothetical 500 MeV constituent",
			Apply:       func(c *Config) { c.ParticleMass = 500 },
		},
		"heavy": {
			Description: "hypothetical 1500 MeV constituent",
			Apply:       func(c *Config) { c.ParticleMass = 1500 },
		},
	},
	"density": {
		"soft": {
			Description: "central density 500 MeV/fm^3",
			Apply:       func(c *Config) { c.Constants.CentralDensity = 500 },
		},
		"stiff": {
			Description: "central density 3000 MeV/fm^3",
			Apply:       func(c *Config) { c.Constants.CentralDensity = 3000 },
		},
	},
	"grid": {
		"fine": {
			Description: "twice the default resolution",
			Apply:       func(c *Config) { c.Grid.Points = 2*(c.Grid.Points-1) + 1 },
		},
		"wide": {
			Description: "radial domain extended to 30",
			Apply: func(c *Config) {
				c.Grid.Points = 2*(c.Grid.Points-1) + 1
				c.Grid.RMax *= 2
			},
		},
	},
}

// GetPreset looks up "group/name".
func GetPreset(group, name string) (Preset, bool) {
	groupPresets, ok := Presets[group]
	if !ok {
		return Preset{}, false
	}
	p, ok := groupPresets[name]
	return p, ok
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
