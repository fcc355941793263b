package command

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Argument converts one raw token into a domain value and names the
// valid tokens at its position.
type Argument interface {
	Convert(value string) (any, bool)
	Options() []string
}

// Select matches the token against a fixed name → value table.
type Select struct {
	choices map[string]any
}

// NewSelect creates an enumerated-choice argument.
func NewSelect(choices map[string]any) *Select {
	return &Select{choices: choices}
}

func (a *Select) Convert(value string) (any, bool) {
	v, ok := a.choices[value]
	return v, ok
}

func (a *Select) Options() []string {
	options := make([]string, 0, len(a.choices))
	for name := range a.choices {
		options = append(options, name)
	}
	sort.Strings(options)
	return options
}

var (
	digitsPattern    = regexp.MustCompile(`^\d+$`)
	clockTimePattern = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)
)

// TimeArg accepts an absolute unix timestamp (all digits) or HH:MM /
// HH:MM:SS interpreted against the current date.
type TimeArg struct {
	now func() time.Time
}

// NewTimeArg creates a clock-time argument.
func NewTimeArg() *TimeArg {
	return &TimeArg{now: time.Now}
}

func (a *TimeArg) Convert(value string) (any, bool) {
	if digitsPattern.MatchString(value) {
		unix, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, false
		}
		return time.Unix(unix, 0), true
	}
	match := clockTimePattern.FindStringSubmatch(value)
	if match == nil {
		return nil, false
	}
	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	second := 0
	if match[3] != "" {
		second, _ = strconv.Atoi(match[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return nil, false
	}
	now := a.now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location()), true
}

func (a *TimeArg) Options() []string {
	return []string{a.now().Format("15:04")}
}

// PercentArg accepts an integer in [0,100].
type PercentArg struct{}

// NewPercentArg creates a percentage argument.
func NewPercentArg() *PercentArg {
	return &PercentArg{}
}

func (a *PercentArg) Convert(value string) (any, bool) {
	if !digitsPattern.MatchString(value) {
		return nil, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n > 100 {
		return nil, false
	}
	return n, true
}

func (a *PercentArg) Options() []string {
	return []string{"25", "50", "75"}
}
