package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidParams is returned when run parameters are out of range.
var ErrInvalidParams = errors.New("invalid run parameters")

// ErrInfeasible is returned when run parameters can never be satisfied.
var ErrInfeasible = errors.New("infeasible run parameters")

// GCMode selects how a candidate's GC fraction is compared with the target.
type GCMode string

const (
	// GCExact accepts only candidates whose GC fraction equals the target.
	GCExact GCMode = "exact"
	// GCThreshold accepts candidates whose GC fraction is at least the target.
	GCThreshold GCMode = "threshold"
)

// ParseGCMode converts a flag or config value to a GCMode.
func ParseGCMode(s string) (GCMode, error) {
	switch m := GCMode(strings.ToLower(strings.TrimSpace(s))); m {
	case GCExact, GCThreshold:
		return m, nil
	}
	return "", &ParamError{Field: "gc_mode", Reason: fmt.Sprintf("unknown mode %q (want exact or threshold)", s), Err: ErrInvalidParams}
}

// RunParams fixes every knob of one generation run.
type RunParams struct {
	Length      int     `yaml:"length" json:"length" validate:"gt=0"`
	Count       int     `yaml:"count" json:"count" validate:"gt=0"`
	MinDistance int     `yaml:"min_distance" json:"min_distance" validate:"gt=0,ltefield=Length"`
	GC          float64 `yaml:"gc" json:"gc" validate:"gte=0,lte=1"`
	MaxRun      int     `yaml:"max_run" json:"max_run" validate:"gte=1"`
	GCMode      GCMode  `yaml:"gc_mode" json:"gc_mode" validate:"oneof=exact threshold"`
	DimerCheck  bool    `yaml:"dimer_check" json:"dimer_check"`
	Debug       bool    `yaml:"debug" json:"debug"`
}

// DefaultParams returns the library defaults: 50 barcodes of length 40 at
// exactly 50% GC, no run of 3, no dimer repeat, pairwise distance 10.
func DefaultParams() RunParams {
	return RunParams{
		Length:      40,
		Count:       50,
		MinDistance: 10,
		GC:          0.5,
		MaxRun:      3,
		GCMode:      GCExact,
		DimerCheck:  true,
	}
}

// ParamError describes one rejected parameter.
type ParamError struct {
	Field  string
	Reason string
	Err    error
}

// Error returns the formatted error string.
func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidParams or ErrInfeasible.
func (e *ParamError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field range. The first violation is returned as a
// *ParamError wrapping ErrInvalidParams.
func (p RunParams) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	fe := verrs[0]
	return &ParamError{Field: fe.Field(), Reason: describe(fe), Err: ErrInvalidParams}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("must not exceed length (got %v)", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of %s (got %q)", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// CheckFeasible rejects parameter sets that no candidate or set could ever
// satisfy. It does not detect combinations that are merely improbable, nor GC
// targets made unreachable by the repeat constraints.
func (p RunParams) CheckFeasible() error {
	if p.MaxRun == 1 {
		return &ParamError{Field: "max_run", Reason: "a limit of 1 forbids every symbol", Err: ErrInfeasible}
	}
	if p.GCMode == GCExact {
		k := math.Round(p.GC * float64(p.Length))
		if k/float64(p.Length) != p.GC {
			return &ParamError{
				Field:  "gc",
				Reason: fmt.Sprintf("exact GC %v of length %d is not a whole number of G/C symbols", p.GC, p.Length),
				Err:    ErrInfeasible,
			}
		}
	}
	// Singleton bound: a code of length L and distance D over 4 symbols holds
	// at most 4^(L-D+1) words.
	if free := p.Length - p.MinDistance + 1; free >= 1 && free < 31 {
		if limit := 1 << (2 * free); p.Count > limit {
			return &ParamError{
				Field:  "count",
				Reason: fmt.Sprintf("at most %d barcodes of length %d can be %d apart", limit, p.Length, p.MinDistance),
				Err:    ErrInfeasible,
			}
		}
	}
	return nil
}
