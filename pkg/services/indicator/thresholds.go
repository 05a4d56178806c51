package indicator

import "github.com/hopital-foch/ll-report/pkg/models/domain"

// Classify maps a percentage rate onto its color class. A nil rate (empty
// denominator) classifies as RateNone so the export layer can grey the cell
// instead of painting it red.
func Classify(th domain.Thresholds, rate *float64) domain.RateClass {
	if rate == nil {
		return domain.RateNone
	}
	switch {
	case *rate >= th.Excellent:
		return domain.RateExcellent
	case *rate >= th.Good:
		return domain.RateGood
	case *rate >= th.Medium:
		return domain.RateMedium
	default:
		return domain.RateLow
	}
}
