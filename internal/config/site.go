package config

import (
	"maps"
	"slices"
)

// SiteConfig holds site-specific crawl settings.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// DenySegments replaces the link deny-list for this site.
	DenySegments []string `yaml:"denySegments,omitempty"`
}

// File represents the structure of the .offerscan configuration file.
type File struct {
	// Sites maps hosts to their site-specific configurations.
	// Keys are host names without scheme (e.g., "shop.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host merged over the defaults.
// Host keys match case-insensitively and ignore a leading "www.".
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}
	if len(siteConfig.DenySegments) > 0 {
		result.DenySegments = siteConfig.DenySegments
	}

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	if sc, ok := cf.Sites[host]; ok {
		return sc, true
	}
	// Keys are visited in sorted order so that "example.com" and
	// "www.example.com" both present resolve the same way every run.
	want := HostKey(host)
	for _, k := range slices.Sorted(maps.Keys(cf.Sites)) {
		if HostKey(k) == want {
			return cf.Sites[k], true
		}
	}
	return SiteConfig{}, false
}
