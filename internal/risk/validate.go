package risk

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type bound struct {
	min, max float64
}

// bounds holds the inclusive range of each feature in featureOrder.
var bounds = [featureCount]bound{
	{0, 100}, // attendance, percent
	{0, 4},   // gpa
	{0, 1},   // assignmentsOnTime, fraction
	{0, 100}, // quizAvg, percent
	{0, 1},   // lmsActivity, fraction
}

// Violation types reported in FieldViolation.Type.
const (
	ViolationGreaterThanEqual = "greater_than_equal"
	ViolationLessThanEqual    = "less_than_equal"
	ViolationFiniteNumber     = "finite_number"
)

// FieldViolation describes one feature that fell outside its range.
type FieldViolation struct {
	Field   Feature
	Type    string
	Message string
	Input   float64
	// Limit is the bound that was crossed. Zero for ViolationFiniteNumber.
	Limit float64
}

// ValidationError collects every out-of-range feature of an Input, in
// feature order.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "invalid features: " + strings.Join(parts, "; ")
}

// NewFeatureVector range-checks in and returns the vector, or a
// *ValidationError naming every offending feature.
func NewFeatureVector(in Input) (FeatureVector, error) {
	var (
		vec        FeatureVector
		violations []FieldViolation
	)
	for i, f := range featureOrder {
		x := in.value(f)
		b := bounds[i]
		switch {
		case math.IsNaN(x) || math.IsInf(x, 0):
			violations = append(violations, FieldViolation{
				Field: f, Type: ViolationFiniteNumber, Input: x,
				Message: "Input should be a finite number",
			})
		case x < b.min:
			violations = append(violations, FieldViolation{
				Field: f, Type: ViolationGreaterThanEqual, Input: x, Limit: b.min,
				Message: "Input should be greater than or equal to " + formatLimit(b.min),
			})
		case x > b.max:
			violations = append(violations, FieldViolation{
				Field: f, Type: ViolationLessThanEqual, Input: x, Limit: b.max,
				Message: "Input should be less than or equal to " + formatLimit(b.max),
			})
		default:
			vec.values[i] = x
		}
	}
	if len(violations) > 0 {
		return FeatureVector{}, &ValidationError{Violations: violations}
	}
	return vec, nil
}

// Bounds returns the inclusive range of f.
func Bounds(f Feature) (lo, hi float64, ok bool) {
	for i, name := range featureOrder {
		if name == f {
			return bounds[i].min, bounds[i].max, true
		}
	}
	return 0, 0, false
}

// formatLimit renders integral limits without a fractional part ("100", not "100.0").
func formatLimit(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
