// Package entity defines the core domain types for data-model diagram nodes and edges.
package entity

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Entity is a named node in the data-model diagram.
// The Name is the graph key; the remaining fields are display attributes.
type Entity struct {
	Name  string `json:"name" yaml:"name" validate:"required"`
	Color string `json:"color" yaml:"color"`
	Size  int    `json:"size" yaml:"size" validate:"gte=0"`
	Shape string `json:"shape" yaml:"shape" validate:"omitempty,oneof=ellipse circle database box text image circularImage diamond dot star triangle triangleDown hexagon square icon"`
	Title string `json:"title" yaml:"title"` // Tooltip text
}

// Relationship is a directed edge between two entities.
type Relationship struct {
	Source    string `json:"source" yaml:"source" validate:"required"`
	Target    string `json:"target" yaml:"target" validate:"required"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" validate:"arrows"` // vis-network arrows hint
}

// Validation errors.
var (
	ErrEmptyName      = errors.New("name is required")
	ErrNegativeSize   = errors.New("size must be >= 0")
	ErrInvalidShape   = errors.New("shape is not a supported node shape")
	ErrEmptySource    = errors.New("source is required")
	ErrEmptyTarget    = errors.New("target is required")
	ErrInvalidArrows  = errors.New("direction must be a list of to, from, middle")
	errUnknownFailure = errors.New("validation failed")
)

// arrowTokens lists the arrow positions vis-network understands.
var arrowTokens = map[string]bool{"to": true, "from": true, "middle": true}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("arrows", func(fl validator.FieldLevel) bool {
		_, err := ParseDirection(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks an entity's fields.
func (e *Entity) Validate() error {
	return translate(validate.Struct(e))
}

// Validate checks a relationship's fields. Endpoint existence is checked by the graph builder.
func (r *Relationship) Validate() error {
	return translate(validate.Struct(r))
}

// Arrows returns the normalized vis-network arrows string for the direction hint.
func (r *Relationship) Arrows() string {
	parts, err := ParseDirection(r.Direction)
	if err != nil {
		return ""
	}
	return strings.Join(parts, ",")
}

// ParseDirection splits a direction hint into arrow positions.
// An empty hint yields no positions.
func ParseDirection(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	if len(fields) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(f)
		if !arrowTokens[f] {
			return nil, ErrInvalidArrows
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// translate maps validator failures onto the package's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Name":
		return ErrEmptyName
	case "Size":
		return ErrNegativeSize
	case "Shape":
		return ErrInvalidShape
	case "Source":
		return ErrEmptySource
	case "Target":
		return ErrEmptyTarget
	case "Direction":
		return ErrInvalidArrows
	}
	return errUnknownFailure
}
