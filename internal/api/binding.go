package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/ZanzyTHEbar/edubloom-ai/internal/errors"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/risk"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/types"
)

// Violation types and messages for request decoding problems.
const (
	violationMissing     = "missing"
	violationFloatType   = "float_type"
	violationJSONInvalid = "json_invalid"
	violationObjectType  = "model_attributes_type"

	msgMissing     = "Field required"
	msgFloatType   = "Input should be a valid number"
	msgJSONInvalid = "JSON decode error"
	msgObjectType  = "Input should be a valid dictionary or object to extract fields from"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report wire names instead of Go field
// names.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindFeatures reads and validates a feature vector from the request body.
// Every problem is reported at once, ordered by feature.
func bindFeatures(c *gin.Context) (risk.FeatureVector, error) {
	body, err := c.GetRawData()
	if err != nil {
		return risk.FeatureVector{}, apperrors.ToAppError(err)
	}

	fields, violation := decodeObject(body)
	if violation != nil {
		return risk.FeatureVector{}, apperrors.NewRequestValidationError([]apperrors.FieldViolation{*violation})
	}

	var (
		req        types.StudentFeatures
		violations = make(map[risk.Feature]apperrors.FieldViolation)
		keys       = make(map[risk.Feature]string)
	)
	for _, f := range risk.Features() {
		key, raw, ok := lookup(fields, f)
		if !ok {
			continue
		}
		keys[f] = key
		v, ok := decodeNumber(raw)
		if !ok {
			violations[f] = apperrors.FieldViolation{
				Loc:   loc(key),
				Msg:   msgFloatType,
				Type:  violationFloatType,
				Input: rawInput(raw),
			}
			continue
		}
		req.Set(f, v)
	}

	useJSONFieldNames()
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return risk.FeatureVector{}, apperrors.ToAppError(err)
		}
		for _, fe := range verrs {
			f := risk.Feature(fe.Field())
			if _, seen := violations[f]; seen {
				continue
			}
			violations[f] = apperrors.FieldViolation{
				Loc:   loc(string(f)),
				Msg:   msgMissing,
				Type:  violationMissing,
				Input: objectInput(fields),
			}
		}
	}

	vec, err := risk.NewFeatureVector(req.Input())
	var rangeErr *risk.ValidationError
	if errors.As(err, &rangeErr) {
		for _, v := range rangeErr.Violations {
			// a type or missing error already covers this field
			if _, seen := violations[v.Field]; !seen {
				violations[v.Field] = rangeViolation(keys[v.Field], v)
			}
		}
	}

	if len(violations) > 0 {
		return risk.FeatureVector{}, apperrors.NewRequestValidationError(ordered(violations))
	}
	return vec, nil
}

// decodeObject parses body as a JSON object keyed by field name.
func decodeObject(body []byte) (map[string]json.RawMessage, *apperrors.FieldViolation) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &apperrors.FieldViolation{
				Loc: []string{"body"}, Msg: msgObjectType, Type: violationObjectType, Input: rawInput(body),
			}
		}
		return nil, &apperrors.FieldViolation{
			Loc: []string{"body"}, Msg: msgJSONInvalid, Type: violationJSONInvalid,
			Ctx: map[string]any{"error": err.Error()},
		}
	}
	if fields == nil {
		// a literal null decodes without error
		return nil, &apperrors.FieldViolation{
			Loc: []string{"body"}, Msg: msgObjectType, Type: violationObjectType,
		}
	}
	return fields, nil
}

// decodeNumber accepts JSON numbers only. Strings, booleans and null are
// rejected rather than coerced.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !(trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0, false
	}
	return v, true
}

func rangeViolation(key string, v risk.FieldViolation) apperrors.FieldViolation {
	out := apperrors.FieldViolation{
		Loc:   loc(key),
		Msg:   v.Message,
		Type:  v.Type,
		Input: v.Input,
	}
	switch v.Type {
	case risk.ViolationGreaterThanEqual:
		out.Ctx = map[string]any{"ge": v.Limit}
	case risk.ViolationLessThanEqual:
		out.Ctx = map[string]any{"le": v.Limit}
	}
	return out
}

func ordered(violations map[risk.Feature]apperrors.FieldViolation) []apperrors.FieldViolation {
	out := make([]apperrors.FieldViolation, 0, len(violations))
	for _, f := range risk.Features() {
		if v, ok := violations[f]; ok {
			out = append(out, v)
		}
	}
	return out
}

// lookup finds f under the first of its keys present in fields.
func lookup(fields map[string]json.RawMessage, f risk.Feature) (string, json.RawMessage, bool) {
	for _, key := range risk.Keys(f) {
		if raw, ok := fields[key]; ok {
			return key, raw, true
		}
	}
	return "", nil, false
}

func loc(key string) []string {
	return []string{"body", key}
}

func rawInput(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func objectInput(fields map[string]json.RawMessage) map[string]any {
	out := make(map[string]any, len(fields))
	for k, raw := range fields {
		out[k] = rawInput(raw)
	}
	return out
}
