package risk

// WeightTable maps each feature to its share of the weighted sum. It is a
// value type: copies cannot alter the table a Scorer was built with.
type WeightTable struct {
	weights [featureCount]float64
}

// DefaultWeights returns the production weight table. Weights sum to 1.
func DefaultWeights() WeightTable {
	return WeightTable{weights: [featureCount]float64{
		0.3,  // attendance
		0.25, // gpa
		0.2,  // assignmentsOnTime
		0.15, // quizAvg
		0.1,  // lmsActivity
	}}
}

// Weight returns the weight of f, or 0 for an unknown feature.
func (w WeightTable) Weight(f Feature) float64 {
	for i, name := range featureOrder {
		if name == f {
			return w.weights[i]
		}
	}
	return 0
}

// Sum returns the total of all weights.
func (w WeightTable) Sum() float64 {
	s := 0.0
	for _, v := range w.weights {
		s += v
	}
	return s
}

// Map returns a copy of the table keyed by wire name.
func (w WeightTable) Map() map[string]float64 {
	out := make(map[string]float64, featureCount)
	for i, f := range featureOrder {
		out[string(f)] = w.weights[i]
	}
	return out
}
