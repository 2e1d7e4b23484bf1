package risk

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVector(t *testing.T, in Input) FeatureVector {
	t.Helper()
	v, err := NewFeatureVector(in)
	require.NoError(t, err)
	return v
}

func TestScoreBoundaries(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	tests := []struct {
		name      string
		input     Input
		wantScore float64
		sign      float64
	}{
		{
			name:      "all features at maximum",
			input:     Input{Attendance: 100, GPA: 4, AssignmentsOnTime: 1, QuizAvg: 100, LMSActivity: 1},
			wantScore: 0.0,
			sign:      1,
		},
		{
			name:      "all features at minimum",
			input:     Input{},
			wantScore: 1.0,
			sign:      -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scorer.Score(mustVector(t, tt.input))

			assert.Equal(t, tt.wantScore, res.RiskScore)
			require.Len(t, res.Factors, featureCount)
			for _, f := range Features() {
				want := tt.sign * DefaultWeights().Weight(f) * 0.5
				assert.InDelta(t, want, res.Factors[string(f)], 1e-9, "factor %s", f)
			}
		})
	}
}

func TestScoreAttendanceFactor(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	high := scorer.Score(mustVector(t, Input{Attendance: 100, GPA: 4, AssignmentsOnTime: 1, QuizAvg: 100, LMSActivity: 1}))
	assert.Equal(t, 0.15, high.Factors["attendance"])

	low := scorer.Score(mustVector(t, Input{}))
	assert.Equal(t, -0.15, low.Factors["attendance"])
}

func TestScoreTypicalStudent(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	res := scorer.Score(mustVector(t, Input{Attendance: 80, GPA: 3, AssignmentsOnTime: 0.9, QuizAvg: 70, LMSActivity: 0.5}))

	assert.InDelta(t, 0.2375, res.RiskScore, 1e-9)
	assert.InDelta(t, 0.09, res.Factors["attendance"], 1e-9)
	assert.InDelta(t, 0.0625, res.Factors["gpa"], 1e-9)
	assert.InDelta(t, 0.08, res.Factors["assignmentsOnTime"], 1e-9)
	assert.InDelta(t, 0.03, res.Factors["quizAvg"], 1e-9)
	assert.InDelta(t, 0.0, res.Factors["lmsActivity"], 1e-9)
}

func randomInput(r *rand.Rand) Input {
	return Input{
		Attendance:        r.Float64() * 100,
		GPA:               r.Float64() * 4,
		AssignmentsOnTime: r.Float64(),
		QuizAvg:           r.Float64() * 100,
		LMSActivity:       r.Float64(),
	}
}

func TestScoreProperties(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	r := rand.New(rand.NewPCG(42, 7))

	for i := 0; i < 500; i++ {
		in := randomInput(r)
		v := mustVector(t, in)
		res := scorer.Score(v)

		assert.GreaterOrEqual(t, res.RiskScore, 0.0)
		assert.LessOrEqual(t, res.RiskScore, 1.0)

		norm := v.normalized()
		ws, sum := 0.0, 0.0
		for j, f := range featureOrder {
			ws += DefaultWeights().Weight(f) * norm[j]
			sum += res.Factors[string(f)]
		}
		assert.InDelta(t, ws-0.5, sum, 1e-3, "input %+v", in)
	}
}

func TestExplainDoublesAndFlipsFactors(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	r := rand.New(rand.NewPCG(3, 9))

	for i := 0; i < 200; i++ {
		v := mustVector(t, randomInput(r))
		score := scorer.Score(v)
		explain := scorer.Explain(v)

		assert.Equal(t, score.RiskScore, explain.RiskScore)
		require.Len(t, explain.Contributions, featureCount)
		for name, factor := range score.Factors {
			assert.Equal(t, Round(-2*factor), explain.Contributions[name], "feature %s", name)
		}
	}
}

func TestExplainBoundaries(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	res := scorer.Explain(mustVector(t, Input{}))
	assert.Equal(t, 1.0, res.RiskScore)
	assert.Equal(t, 0.3, res.Contributions["attendance"])
	assert.Equal(t, 0.25, res.Contributions["gpa"])
	assert.Equal(t, 0.2, res.Contributions["assignmentsOnTime"])
	assert.Equal(t, 0.15, res.Contributions["quizAvg"])
	assert.Equal(t, 0.1, res.Contributions["lmsActivity"])
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
	assert.Equal(t, map[string]float64{
		"attendance":        0.3,
		"gpa":               0.25,
		"assignmentsOnTime": 0.2,
		"quizAvg":           0.15,
		"lmsActivity":       0.1,
	}, w.Map())
	assert.Zero(t, w.Weight(Feature("unknown")))
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.23749999, 0.2375},
		{1.0 / 3, 0.3333},
		{-2.0 / 3, -0.6667},
		{0.15, 0.15},
		{1, 1},
		{1e-17, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}
