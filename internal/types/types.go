package types

import "github.com/ZanzyTHEbar/edubloom-ai/internal/risk"

// StudentFeatures is the request body of /predict and /explain. Pointers
// distinguish a missing field from an explicit zero. The multi-word fields
// are also accepted under their snake_case keys, see risk.Keys.
type StudentFeatures struct {
	Attendance        *float64 `json:"attendance" binding:"required" example:"92.5"`
	GPA               *float64 `json:"gpa" binding:"required" example:"3.4"`
	AssignmentsOnTime *float64 `json:"assignmentsOnTime" binding:"required" example:"0.85"`
	QuizAvg           *float64 `json:"quizAvg" binding:"required" example:"78"`
	LMSActivity       *float64 `json:"lmsActivity" binding:"required" example:"0.6"`
}

// Set stores v under the wire name of f.
func (s *StudentFeatures) Set(f risk.Feature, v float64) {
	switch f {
	case risk.Attendance:
		s.Attendance = &v
	case risk.GPA:
		s.GPA = &v
	case risk.AssignmentsOnTime:
		s.AssignmentsOnTime = &v
	case risk.QuizAvg:
		s.QuizAvg = &v
	case risk.LMSActivity:
		s.LMSActivity = &v
	}
}

// Input converts the request to scorer input. Missing fields become 0,
// which lies inside every feature's range.
func (s StudentFeatures) Input() risk.Input {
	return risk.Input{
		Attendance:        deref(s.Attendance),
		GPA:               deref(s.GPA),
		AssignmentsOnTime: deref(s.AssignmentsOnTime),
		QuizAvg:           deref(s.QuizAvg),
		LMSActivity:       deref(s.LMSActivity),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Title       string `json:"title" example:"EduBloom AI Service"`
	Version     string `json:"version" example:"1.0.0"`
	Description string `json:"description"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string         `json:"status" example:"ok"`
	Timestamp string         `json:"timestamp"`
	Version   string         `json:"version"`
	Metrics   map[string]any `json:"metrics"`
}
