package forms

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/student"
)

const (
	MsgStudentName  = "Informe o nome do aluno."
	MsgStudentEmail = "Informe um e-mail válido."
)

type StudentValues struct {
	Name    string         `json:"name" validate:"notblank"`
	Email   string         `json:"email" validate:"portalemail"`
	ClassID *string        `json:"classId"`
	Status  student.Status `json:"status" validate:"studentstatus"`
}

// StudentValuesOf returns the form values of an existing student.
func StudentValuesOf(std student.Student) StudentValues {
	return StudentValues{Name: std.Name, Email: std.Email, ClassID: std.ClassID, Status: std.Status}
}

func (v StudentValues) trimmed() StudentValues {
	v.Name = core.CleanString(v.Name)
	v.Email = core.CleanString(v.Email)
	return v
}

type StudentForm struct {
	form
	values StudentValues
}

// NewStudentForm starts from defaults, or from an empty active student when nil.
func NewStudentForm(validate *validator.Validate, translator ut.Translator, defaults *StudentValues) *StudentForm {
	f := &StudentForm{form: newForm(validate, translator, map[string]string{
		"name":  MsgStudentName,
		"email": MsgStudentEmail,
	})}
	f.Reset(defaults)
	return f
}

// Reset loads new default values and forgets the submit attempt.
func (f *StudentForm) Reset(defaults *StudentValues) {
	f.values = StudentValues{Status: student.StatusActive}
	if defaults != nil {
		f.values = *defaults
	}
	f.reset()
}

func (f *StudentForm) Values() StudentValues {
	return f.values
}

func (f *StudentForm) SetName(name string) {
	f.values.Name = name
}

func (f *StudentForm) SetEmail(email string) {
	f.values.Email = email
}

// SetClass selects a class; "" means no class.
func (f *StudentForm) SetClass(id string) {
	if id == "" {
		f.values.ClassID = nil
		return
	}
	f.values.ClassID = &id
}

func (f *StudentForm) SetStatus(status student.Status) {
	f.values.Status = status
}

func (f *StudentForm) CanSubmit() bool {
	v := f.values.trimmed()
	return len(f.check(&v)) == 0
}

// Submit returns the trimmed values, or a *core.ValidationError listing the invalid fields.
func (f *StudentForm) Submit() (StudentValues, error) {
	v := f.values.trimmed()
	if err := f.attempt(f.check(&v)); err != nil {
		return StudentValues{}, err
	}
	return v, nil
}

func (v StudentValues) NewStudent() student.NewStudent {
	return student.NewStudent{Name: v.Name, Email: v.Email, ClassID: v.ClassID, Status: v.Status}
}

// Update sets every field, so the student may also leave their class.
func (v StudentValues) Update() student.UpdateStudent {
	name, email, status := v.Name, v.Email, v.Status
	us := student.UpdateStudent{Name: &name, Email: &email, Status: &status, ClassID: core.NullID()}
	if v.ClassID != nil {
		us.ClassID = core.SomeID(*v.ClassID)
	}
	return us
}
