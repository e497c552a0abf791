package planfile

import (
	"github.com/slatehq/slate/internal/core/domain"
)

// PlanVersion is the newest plan format version this build writes.
const PlanVersion = 1

// Plan is the portable YAML representation of a task board. Task ids in a
// plan are local references chosen by the author; import mints real ids and
// rewires dependencies accordingly.
type Plan struct {
	Version int    `yaml:"version"           validate:"gte=1"`
	Project string `yaml:"project,omitempty"`
	Tasks   []Task `yaml:"tasks"             validate:"dive"`
}

// Task is one task entry in a plan document.
type Task struct {
	ID          string       `yaml:"id"                     validate:"required,plan_ref"`
	Title       string       `yaml:"title"                  validate:"required"`
	List        string       `yaml:"list,omitempty"`
	Start       *domain.Date `yaml:"start,omitempty"`
	Due         *domain.Date `yaml:"due,omitempty"`
	Duration    *int         `yaml:"duration,omitempty"     validate:"omitempty,gte=1"`
	Fixed       bool         `yaml:"fixed,omitempty"`
	DependsOn   []string     `yaml:"depends_on,omitempty"   validate:"dive,plan_ref"`
	Done        bool         `yaml:"done,omitempty"`
	CompletedAt *domain.Date `yaml:"completed_at,omitempty"`
}
