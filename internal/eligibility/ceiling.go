package eligibility

import "fmt"

// BorderlineWindow is how many points over the aggregate ceiling still count as borderline.
const BorderlineWindow = 3

type ceilingStatus int

const (
	ceilingAbsent ceilingStatus = iota
	ceilingWithin
	ceilingBorderline
	ceilingOver
)

// BorderlinePolicy controls whether an institution reports near misses.
type BorderlinePolicy struct {
	Enabled bool `json:"enabled"`
	Window  int  `json:"window,omitempty"`
}

// Points is the effective borderline window, zero when disabled.
func (p BorderlinePolicy) Points() int {
	if !p.Enabled {
		return 0
	}
	if p.Window <= 0 {
		return BorderlineWindow
	}
	return p.Window
}

func checkCeiling(aggregate int, limit *int, policy BorderlinePolicy) ceilingStatus {
	if limit == nil || *limit <= 0 {
		return ceilingAbsent
	}
	switch {
	case aggregate <= *limit:
		return ceilingWithin
	case policy.Enabled && aggregate <= *limit+policy.Points():
		return ceilingBorderline
	default:
		return ceilingOver
	}
}

func ceilingDetail(status ceilingStatus, aggregate int, limit *int) string {
	switch status {
	case ceilingWithin:
		return fmt.Sprintf("%sAggregate %d is within the cut-off of %d", markPass, aggregate, *limit)
	case ceilingBorderline:
		return fmt.Sprintf("%sAggregate %d is %d point(s) above the cut-off of %d", markWarn, aggregate, aggregate-*limit, *limit)
	case ceilingOver:
		return fmt.Sprintf("%sAggregate %d exceeds the cut-off of %d", markFail, aggregate, *limit)
	default:
		return ""
	}
}
