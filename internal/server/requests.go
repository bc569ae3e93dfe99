package server

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

type predictRequest struct {
	Years *float64 `json:"years" binding:"required"`
}

type predictRangeRequest struct {
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Points *int     `json:"points" binding:"omitempty,gte=1"`
}

const (
	defaultRangeMin    = 0.0
	defaultRangeMax    = 20.0
	defaultRangePoints = 50
)

func (r predictRangeRequest) resolve() (min, max float64, points int) {
	min, max, points = defaultRangeMin, defaultRangeMax, defaultRangePoints
	if r.Min != nil {
		min = *r.Min
	}
	if r.Max != nil {
		max = *r.Max
	}
	if r.Points != nil {
		points = *r.Points
	}
	return min, max, points
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindingDetails turns validator failures into per-field entries. Other bind errors such as
// malformed JSON have no per-field detail.
func bindingDetails(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: strings.ToLower(fe.Field()), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

func bindingMessage(details []fieldError, err error) string {
	if len(details) == 0 {
		return "invalid request body: " + err.Error()
	}
	parts := make([]string, len(details))
	for i, d := range details {
		if d.Param != "" {
			parts[i] = fmt.Sprintf("%s failed %s=%s", d.Field, d.Rule, d.Param)
		} else {
			parts[i] = fmt.Sprintf("%s failed %s", d.Field, d.Rule)
		}
	}
	return strings.Join(parts, "; ")
}
