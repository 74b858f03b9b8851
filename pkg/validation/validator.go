package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(planWindowValidation, mesh.PlanWindow{})
	validate.RegisterStructValidation(waveValidation, mesh.Wave{})
}

// ErrShape is wrapped by errors describing malformed input
var ErrShape = errors.New("malformed input")

// FieldError is one failed shape rule
type FieldError struct {
	Path  string
	Tag   string
	Param string
}

func (e FieldError) String() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s: field is required", e.Path)
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", e.Path, e.Param)
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", e.Path, e.Param)
	case "window":
		return fmt.Sprintf("%s: window ends before it starts", e.Path)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Path, e.Tag)
	}
}

// ShapeError lists every shape rule an input broke
type ShapeError struct {
	Fields []FieldError
}

func (e *ShapeError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrShape, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrShape
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// ValidateSnapshotShape checks that a decoded snapshot is well formed: ids
// present and enums known. Value ranges and references between records are
// not checked here; the pipeline reports those as issues.
func ValidateSnapshotShape(snapshot *mesh.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot cannot be nil", ErrShape)
	}
	return formatValidationError(validate.Struct(snapshot))
}

// ValidateIntentShape checks that a decoded intent is well formed
func ValidateIntentShape(intent *mesh.RuntimeIntent) error {
	if intent == nil {
		return fmt.Errorf("%w: intent cannot be nil", ErrShape)
	}
	return formatValidationError(validate.Struct(intent))
}

// ValidateIntentsShape checks a list of intents, prefixing paths with the
// intent's position
func ValidateIntentsShape(intents []mesh.RuntimeIntent) error {
	combined := &ShapeError{}
	for i := range intents {
		err := ValidateIntentShape(&intents[i])
		var shapeErr *ShapeError
		if errors.As(err, &shapeErr) {
			for _, f := range shapeErr.Fields {
				f.Path = fmt.Sprintf("intents[%d].%s", i, f.Path)
				combined.Fields = append(combined.Fields, f)
			}
		} else if err != nil {
			return err
		}
	}
	if len(combined.Fields) == 0 {
		return nil
	}
	return combined
}

func planWindowValidation(sl validator.StructLevel) {
	w := sl.Current().Interface().(mesh.PlanWindow)
	if !w.FromUTC.IsZero() && !w.ToUTC.IsZero() && w.ToUTC.Before(w.FromUTC) {
		sl.ReportError(w.ToUTC, "toUtc", "ToUTC", "window", "")
	}
}

func waveValidation(sl validator.StructLevel) {
	w := sl.Current().Interface().(mesh.Wave)
	if !w.StartAt.IsZero() && !w.DeadlineAt.IsZero() && w.DeadlineAt.Before(w.StartAt) {
		sl.ReportError(w.DeadlineAt, "deadlineAt", "DeadlineAt", "window", "")
	}
}

// formatValidationError converts validator errors to a ShapeError
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrShape, err)
	}

	shapeErr := &ShapeError{Fields: make([]FieldError, 0, len(validationErrs))}
	for _, e := range validationErrs {
		// drop the root struct name from the namespace
		_, path, found := strings.Cut(e.Namespace(), ".")
		if !found {
			path = e.Namespace()
		}
		shapeErr.Fields = append(shapeErr.Fields, FieldError{
			Path:  path,
			Tag:   e.Tag(),
			Param: e.Param(),
		})
	}
	return shapeErr
}
