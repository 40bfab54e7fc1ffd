package models

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// gt and gte let +Inf through, and decimal cannot represent it
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	return v
}

// RunConfig is the immutable parameter set of one analysis run. It is passed
// by value so no stage can alter it mid-run.
type RunConfig struct {
	Keyword      string
	ExchangeRate float64 `validate:"finite,gt=0"`
	UnitCost     float64 `validate:"finite,gt=0"`
	// FeeRate above 1 is accepted; it yields negative post-fee revenue.
	FeeRate float64 `validate:"finite,gte=0"`
}

// Validate returns a ConfigurationError naming every offending field.
func (rc RunConfig) Validate() error {
	err := validate.Struct(rc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(KindConfiguration, err, "validate run config")
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fe.Field()+" must be "+describeTag(fe.Tag(), fe.Param()))
	}
	return NewError(KindConfiguration, "%s", strings.Join(problems, "; "))
}

func describeTag(tag, param string) string {
	switch tag {
	case "gt":
		return "greater than " + param
	case "gte":
		return "at least " + param
	case "finite":
		return "a finite number"
	default:
		return tag + " " + param
	}
}
