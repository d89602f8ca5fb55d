package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingDays(t *testing.T) {
	est := NewEstimator(DefaultRegionConfig())

	tests := []struct {
		name        string
		origin      string
		destination string
		want        int
	}{
		{"same region is the minimum", "CA", "CA", 2},
		{"same remote region is the minimum", "AK", "AK", 2},
		{"same group reduces base", "CA", "WA", 3},
		{"cross-group pays base", "CA", "TX", 5},
		{"remote origin adds days", "AK", "CA", 8},
		{"remote destination adds days", "CA", "HI", 8},
		{"both remote adds twice", "AK", "HI", 11},
		{"unknown regions pay base", "XX", "YY", 5},
		{"unknown vs known pays base", "XX", "CA", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, est.ShippingDays(tt.origin, tt.destination))
		})
	}
}

func TestShippingDaysNeverBelowFloor(t *testing.T) {
	cfg := DefaultRegionConfig()
	est := NewEstimator(cfg)

	var regions []string
	regions = append(regions, cfg.RemoteRegions...)
	for _, group := range cfg.Groups {
		regions = append(regions, group...)
	}
	regions = append(regions, "ZZ")

	for _, origin := range regions {
		for _, destination := range regions {
			days := est.ShippingDays(origin, destination)
			assert.GreaterOrEqual(t, days, 2, "origin=%s destination=%s", origin, destination)
		}
	}
}

func TestRemoteRegionsCarryNoGroup(t *testing.T) {
	cfg := DefaultRegionConfig()
	for _, r := range cfg.RemoteRegions {
		assert.Empty(t, cfg.groupOf(r), "remote region %s must not belong to a group", r)
	}
}
