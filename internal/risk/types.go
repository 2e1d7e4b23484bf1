package risk

// Feature names a scored input. The string value is the wire key used in
// requests and in factor/contribution maps.
type Feature string

const (
	Attendance        Feature = "attendance"
	GPA               Feature = "gpa"
	AssignmentsOnTime Feature = "assignmentsOnTime"
	QuizAvg           Feature = "quizAvg"
	LMSActivity       Feature = "lmsActivity"
)

const featureCount = 5

// featureOrder fixes iteration order for summation and validation reporting.
var featureOrder = [featureCount]Feature{Attendance, GPA, AssignmentsOnTime, QuizAvg, LMSActivity}

// Features returns the scored features in evaluation order.
func Features() []Feature {
	out := make([]Feature, featureCount)
	copy(out, featureOrder[:])
	return out
}

// snakeCaseKeys lists the alternate request keys accepted for multi-word
// features.
var snakeCaseKeys = map[Feature]string{
	AssignmentsOnTime: "assignments_on_time",
	QuizAvg:           "quiz_avg",
	LMSActivity:       "lms_activity",
}

// Keys returns the request keys that carry f, preferred key first.
func Keys(f Feature) []string {
	if alt, ok := snakeCaseKeys[f]; ok {
		return []string{string(f), alt}
	}
	return []string{string(f)}
}

// Input is the raw, unvalidated feature payload.
type Input struct {
	Attendance        float64
	GPA               float64
	AssignmentsOnTime float64
	QuizAvg           float64
	LMSActivity       float64
}

func (in Input) value(f Feature) float64 {
	switch f {
	case Attendance:
		return in.Attendance
	case GPA:
		return in.GPA
	case AssignmentsOnTime:
		return in.AssignmentsOnTime
	case QuizAvg:
		return in.QuizAvg
	case LMSActivity:
		return in.LMSActivity
	}
	return 0
}

// FeatureVector is a range-checked Input. The zero value is valid (all
// features at their minimum); other values only come from NewFeatureVector.
type FeatureVector struct {
	values [featureCount]float64
}

// Value returns the raw value of f.
func (v FeatureVector) Value(f Feature) float64 {
	for i, name := range featureOrder {
		if name == f {
			return v.values[i]
		}
	}
	return 0
}

// normalized rescales every feature to [0,1] by its upper bound.
func (v FeatureVector) normalized() [featureCount]float64 {
	var out [featureCount]float64
	for i := range featureOrder {
		out[i] = v.values[i] / bounds[i].max
	}
	return out
}

type RiskResult struct {
	RiskScore float64            `json:"riskScore" yaml:"riskScore"`
	Factors   map[string]float64 `json:"factors" yaml:"factors"`
}

type ExplainResult struct {
	RiskScore     float64            `json:"riskScore" yaml:"riskScore"`
	Contributions map[string]float64 `json:"contributions" yaml:"contributions"`
}
