package stats

import "gonum.org/v1/gonum/stat/distuv"

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// ZVal returns the two-tailed z-value for a confidence percentage in
// (0, 100).
func ZVal(pct float64) float64 {
	return standardNormal.Quantile((1 + pct/100) / 2)
}
