package bandit

import "math"

// cucbBound = min(μ̂ + sqrt(3 ln t / (2 T_i + ε)), 1)
func cucbBound(mean float64, round, visits int) float64 {
	bonus := math.Sqrt(3 * math.Log(float64(round)) / (2*float64(visits) + zeroVisitEpsilon))
	return math.Min(mean+bonus, 1)
}

// ucb1Score = μ̂ + sqrt(2 ln t / T_i)
func ucb1Score(mean float64, round, visits int) float64 {
	return mean + math.Sqrt(2*math.Log(float64(round))/visitDenominator(visits))
}

// llrScore = μ̂ + sqrt((L+1) ln t / T_i)
func llrScore(mean float64, round, visits, l int) float64 {
	return mean + math.Sqrt(float64(l+1)*math.Log(float64(round))/visitDenominator(visits))
}

// visitDenominator keeps an unplayed arm's bonus finite and large.
func visitDenominator(visits int) float64 {
	if visits <= 0 {
		return zeroVisitEpsilon
	}
	return float64(visits)
}
