package match

// Shipping time constants, in calendar days.
const (
	minShippingDays      = 2
	baseShippingDays     = 5
	remoteRegionDays     = 3
	sameGroupReduction   = 2
)

// Estimator converts an origin/destination region pair into a transit-day
// estimate. It is a pure lookup over a fixed RegionConfig; date arithmetic
// happens one level up, in the scorer.
type Estimator struct {
	regions RegionConfig
}

// NewEstimator creates a shipping estimator over the given region partition.
func NewEstimator(regions RegionConfig) *Estimator {
	return &Estimator{regions: regions}
}

// ShippingDays estimates freight transit days from origin to destination.
// Same region ships in the 2-day minimum. Otherwise the base rate applies,
// each remote endpoint adds days (additively), and a shared geographic
// group reduces the total. The result never drops below the minimum.
func (e *Estimator) ShippingDays(origin, destination string) int {
	if origin == destination {
		return minShippingDays
	}

	days := baseShippingDays
	if e.regions.isRemote(origin) {
		days += remoteRegionDays
	}
	if e.regions.isRemote(destination) {
		days += remoteRegionDays
	}

	// Remote regions carry no group, so they never get the reduction.
	if g := e.regions.groupOf(origin); g != "" && g == e.regions.groupOf(destination) {
		days -= sameGroupReduction
	}

	if days < minShippingDays {
		days = minShippingDays
	}
	return days
}
