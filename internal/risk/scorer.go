package risk

// Scorer computes risk scores from validated feature vectors. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	weights WeightTable
}

func NewScorer(w WeightTable) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the table the scorer was built with.
func (s *Scorer) Weights() WeightTable {
	return s.weights
}

// Score returns the risk score and the signed per-feature factors.
//
// The score is 1 minus the weighted sum of normalized features, clamped to
// [0,1]. Each factor is weight*(normalized-0.5): positive factors pull risk
// down, negative ones push it up.
func (s *Scorer) Score(v FeatureVector) RiskResult {
	norm := v.normalized()

	ws := 0.0
	for i := range featureOrder {
		ws += s.weights.weights[i] * norm[i]
	}
	score := Round(clamp(1-ws, 0, 1))

	factors := make(map[string]float64, featureCount)
	for i, f := range featureOrder {
		factors[string(f)] = Round(s.weights.weights[i] * (norm[i] - 0.5))
	}
	return RiskResult{RiskScore: score, Factors: factors}
}

// Explain re-expresses Score's factors as contributions to risk: each
// contribution is -2 times the rounded factor, rounded again.
func (s *Scorer) Explain(v FeatureVector) ExplainResult {
	res := s.Score(v)
	contributions := make(map[string]float64, len(res.Factors))
	for name, factor := range res.Factors {
		contributions[name] = Round(-2 * factor)
	}
	return ExplainResult{RiskScore: res.RiskScore, Contributions: contributions}
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}
