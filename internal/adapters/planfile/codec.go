// Package planfile reads and writes portable YAML plan documents.
package planfile

import (
	"io"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/slatehq/slate/internal/core/domain"
)

// refPattern matches local task references in plan files. References share
// the project-name alphabet so they stay usable as anchors and file names.
var refPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Codec parses and renders plan documents.
type Codec struct {
	validate *validator.Validate
}

// NewCodec creates a Codec with the plan schema validators registered.
func NewCodec() (*Codec, error) {
	v := validator.New()
	if err := v.RegisterValidation("plan_ref", validateRef); err != nil {
		return nil, err
	}
	return &Codec{validate: v}, nil
}

func validateRef(fl validator.FieldLevel) bool {
	return refPattern.MatchString(fl.Field().String())
}

// Decode reads one plan document from r and validates it. The returned plan
// is schema-valid and internally consistent: ids are unique and every
// dependency resolves to a task defined in the same document. Cycle checks
// are left to the importer, which has the full graph semantics.
func (c *Codec) Decode(r io.Reader) (*Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPlanReadFailed.Error())
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, zerr.Wrap(err, domain.ErrPlanParseFailed.Error())
	}

	// An omitted version means the current format.
	if plan.Version == 0 {
		plan.Version = PlanVersion
	}

	if err := c.validate.Struct(&plan); err != nil {
		return nil, zerr.Wrap(err, domain.ErrPlanInvalid.Error())
	}

	if err := checkRefs(&plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

// Encode writes plan to w as YAML.
func (c *Codec) Encode(w io.Writer, plan *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		_ = enc.Close()
		return zerr.Wrap(err, domain.ErrPlanWriteFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrPlanWriteFailed.Error())
	}
	return nil
}

// checkRefs verifies id uniqueness and dependency resolution inside the plan.
func checkRefs(plan *Plan) error {
	seen := make(map[string]struct{}, len(plan.Tasks))
	for _, t := range plan.Tasks {
		if _, ok := seen[t.ID]; ok {
			return zerr.With(domain.ErrDuplicatePlanID, "id", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	for _, t := range plan.Tasks {
		for _, dep := range t.DependsOn {
			if _, ok := seen[dep]; !ok {
				err := zerr.With(domain.ErrUnknownPlanDependency, "task", t.ID)
				err = zerr.With(err, "dependency", dep)
				return err
			}
		}
	}

	return nil
}
