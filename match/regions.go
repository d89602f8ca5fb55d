package match

import (
	"encoding/json"
	"fmt"
	"os"
)

// RegionConfig holds the geography used by the shipping estimator: the set
// of remote regions that add transit time, and the coarse groups that
// reduce it. Remote regions belong to no group.
type RegionConfig struct {
	RemoteRegions []string            `json:"remote_regions"`
	Groups        map[string][]string `json:"groups"`
}

// DefaultRegionConfig returns the built-in US state partition.
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{
		RemoteRegions: []string{"AK", "HI", "PR", "GU"},
		Groups: map[string][]string{
			"west":      {"CA", "OR", "WA", "NV", "ID", "MT", "WY", "UT", "CO"},
			"southwest": {"AZ", "NM", "TX", "OK"},
			"midwest":   {"ND", "SD", "NE", "KS", "MN", "IA", "MO", "WI", "IL", "IN", "MI", "OH"},
			"southeast": {"AR", "LA", "MS", "AL", "TN", "KY", "GA", "FL", "SC", "NC", "VA", "WV"},
			"northeast": {"MD", "DE", "PA", "NJ", "NY", "CT", "RI", "MA", "VT", "NH", "ME", "DC"},
		},
	}
}

// LoadRegionConfig loads a region partition from a JSON file, falling back
// to the defaults when the file cannot be read.
func LoadRegionConfig(path string) (RegionConfig, error) {
	cfg := DefaultRegionConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read region config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal region config: %w", err)
	}
	return cfg, nil
}

func (c RegionConfig) isRemote(region string) bool {
	for _, r := range c.RemoteRegions {
		if r == region {
			return true
		}
	}
	return false
}

// groupOf returns the group name containing region, or "" when the region
// is ungrouped (remote or unknown).
func (c RegionConfig) groupOf(region string) string {
	for name, regions := range c.Groups {
		for _, r := range regions {
			if r == region {
				return name
			}
		}
	}
	return ""
}
