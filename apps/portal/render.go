package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/core/student"
)

const (
	noClassLabel   = "Sem turma"
	barWidth       = 10
	minMatchRatio  = 0.6
	maxSuggestions = 3
)

var months = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

var ansiColors = map[string]string{
	dashboard.ColorBlue:   "\033[34m",
	dashboard.ColorYellow: "\033[33m",
	dashboard.ColorRed:    "\033[31m",
	dashboard.ColorGreen:  "\033[32m",
}

// formatDate renders t in local time as "02 jan 15:04".
func formatDate(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%02d %s %s", t.Day(), months[t.Month()-1], t.Format("15:04"))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func statusLabel(s student.Status) string {
	if s == student.StatusActive {
		return "Ativo"
	}
	return "Inativo"
}

func percent(rate float64) int {
	return int(rate*100 + 0.5)
}

// bar draws percent (0-100) as a fixed-width gauge.
func bar(percent int) string {
	filled := percent * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// paint colours s for terminals.
func (cli *commandLine) paint(color, s string) string {
	if !cli.color {
		return s
	}
	if code, ok := ansiColors[color]; ok {
		return code + s + "\033[0m"
	}
	return s
}

func (cli *commandLine) printRow(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

// alert prints the user-facing messages of err as "! <message>" lines and marks it as reported.
func (cli *commandLine) alert(err error) error {
	if err == nil {
		return nil
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		for _, fe := range vErr.Fields {
			cli.printf("! %s\n", fe.Error)
		}
	} else {
		cli.printf("! %s\n", err.Error())
	}
	return &alertError{err}
}

// alertError is an error already shown to the user.
type alertError struct {
	err error
}

func (e *alertError) Error() string {
	return e.err.Error()
}

func (e *alertError) Unwrap() error {
	return e.err
}

func classNames(classes []classroom.ClassRoom) map[string]string {
	names := make(map[string]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return names
}

func classLabel(names map[string]string, id *string) string {
	if id == nil {
		return noClassLabel
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return dashboard.UnknownClassName
}

// resolveClass finds a class by ID or by name, ignoring case and surrounding spaces.
func resolveClass(classes []classroom.ClassRoom, ref string) (classroom.ClassRoom, error) {
	for _, c := range classes {
		if c.ID == ref {
			return c, nil
		}
	}
	name := core.CleanString(ref, true /* lower */)
	for _, c := range classes {
		if core.CleanString(c.Name, true /* lower */) == name {
			return c, nil
		}
	}

	msg := fmt.Sprintf("Turma %q não encontrada.", ref)
	if hints := suggestClasses(classes, ref); len(hints) > 0 {
		msg += " Você quis dizer: " + strings.Join(hints, ", ") + "?"
	}
	return classroom.ClassRoom{}, errors.New(msg)
}

// suggestClasses returns the class names closest to ref, best first.
func suggestClasses(classes []classroom.ClassRoom, ref string) []string {
	type match struct {
		name  string
		ratio float64
	}
	target := strings.Split(core.CleanString(ref, true /* lower */), "")

	var matches []match
	for _, c := range classes {
		m := difflib.NewMatcher(target, strings.Split(core.CleanString(c.Name, true /* lower */), ""))
		if r := m.Ratio(); r >= minMatchRatio {
			matches = append(matches, match{name: c.Name, ratio: r})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	var names []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		names = append(names, fmt.Sprintf("%q", m.name))
	}
	return names
}
