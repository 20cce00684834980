package forms

import (
	"math"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/classroom"
)

const (
	MsgClassName     = "Informe o nome da turma."
	MsgClassCapacity = "Informe uma capacidade maior ou igual a 1."

	defaultCapacity = "30"
)

type ClassValues struct {
	Name     string `json:"name" validate:"notblank"`
	Capacity int    `json:"capacity" validate:"gte=1"`
}

// SanitizeCapacity turns typed text into the digits of a whole, non-negative number.
// Text that is not a number, or is negative, becomes "0". Empty text stays empty.
func SanitizeCapacity(text string) string {
	if text == "" {
		return ""
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return "0"
	}
	return strconv.FormatFloat(math.Floor(n), 'f', 0, 64)
}

type ClassForm struct {
	form
	name     string
	capacity string
}

func NewClassForm(validate *validator.Validate, translator ut.Translator, defaults *ClassValues) *ClassForm {
	f := &ClassForm{form: newForm(validate, translator, map[string]string{
		"name":     MsgClassName,
		"capacity": MsgClassCapacity,
	})}
	f.Reset(defaults)
	return f
}

func (f *ClassForm) Reset(defaults *ClassValues) {
	f.name, f.capacity = "", defaultCapacity
	if defaults != nil {
		f.name = defaults.Name
		f.capacity = strconv.Itoa(defaults.Capacity)
	}
	f.reset()
}

func (f *ClassForm) SetName(name string) {
	f.name = name
}

func (f *ClassForm) SetCapacity(text string) {
	f.capacity = SanitizeCapacity(text)
}

// Capacity is the capacity text as shown in the form.
func (f *ClassForm) Capacity() string {
	return f.capacity
}

func (f *ClassForm) Name() string {
	return f.name
}

func (f *ClassForm) values() ClassValues {
	n, _ := strconv.Atoi(f.capacity) // invalid text leaves 0, rejected by the rules
	return ClassValues{Name: core.CleanString(f.name), Capacity: n}
}

func (f *ClassForm) CanSubmit() bool {
	v := f.values()
	return len(f.check(&v)) == 0
}

func (f *ClassForm) Submit() (ClassValues, error) {
	v := f.values()
	if err := f.attempt(f.check(&v)); err != nil {
		return ClassValues{}, err
	}
	return v, nil
}

func (v ClassValues) NewClass() classroom.NewClass {
	return classroom.NewClass{Name: v.Name, Capacity: classroom.NewCapacity(v.Capacity)}
}

func (v ClassValues) Update() classroom.UpdateClass {
	name := v.Name
	return classroom.UpdateClass{Name: &name, Capacity: classroom.NewCapacity(v.Capacity)}
}
