package config

// SiteConfig holds the presentation settings of the site.
type SiteConfig struct {
	Presets   []int `yaml:"presets"`    // years suggested on the home page
	ItemLimit int   `yaml:"item_limit"` // max entries extracted per section
}

var defaultPresets = []int{1969, 1989, 1991, 2001, 2016}

const defaultItemLimit = 20

func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		Presets:   append([]int(nil), defaultPresets...),
		ItemLimit: defaultItemLimit,
	}
}
