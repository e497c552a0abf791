package planview

import (
	"fmt"

	"github.com/slatehq/slate/internal/core/domain"
	"go.trai.ch/zerr"
)

// Scale is the timeline unit of the plan table. Its numeric value is the
// divisor applied to day counts.
type Scale int

const (
	Day  Scale = 1
	Week Scale = 7
)

// ParseScale maps a scale token from the command line to a Scale.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "day", "d":
		return Day, nil
	case "week", "w":
		return Week, nil
	default:
		return 0, zerr.With(domain.ErrUnknownScale, "value", s)
	}
}

func (s Scale) String() string {
	if s == Week {
		return "week"
	}
	return "day"
}

// Unit returns the single-letter duration suffix for this scale.
func (s Scale) Unit() string {
	if s == Week {
		return "w"
	}
	return "d"
}

// FormatDays renders a day count in scale units, rounding up so a partial
// week counts as a whole one.
func (s Scale) FormatDays(days int) string {
	div := int(s)
	if div <= 1 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%d%s", (days+div-1)/div, s.Unit())
}
