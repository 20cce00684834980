package forms_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
	"github.com/trezcool/portal/forms"
	"github.com/trezcool/portal/tests"
)

func TestStudentForm(t *testing.T) {
	validate, translator := testutil.NewValidator()
	f := forms.NewStudentForm(validate, translator, nil)

	assert.Equal(t, student.StatusActive, f.Values().Status)
	assert.False(t, f.CanSubmit())
	// errors are hidden until a submit attempt
	assert.Empty(t, f.FieldError("name"))

	_, err := f.Submit()
	require.Error(t, err)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, forms.ErrNotSubmittable, vErr.Err)
	assert.Equal(t, forms.MsgStudentName, f.FieldError("name"))
	assert.Equal(t, forms.MsgStudentEmail, f.FieldError("email"))

	f.SetName("  Eva Rocha ")
	f.SetEmail("eva@escola")
	assert.False(t, f.CanSubmit())
	f.SetEmail(" EVA.ROCHA@Escola.com.br ")
	f.SetClass("class-1")
	f.SetStatus(student.StatusInactive)
	assert.True(t, f.CanSubmit())

	v, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Eva Rocha", v.Name)
	assert.Equal(t, "EVA.ROCHA@Escola.com.br", v.Email)
	require.NotNil(t, v.ClassID)
	assert.Equal(t, "class-1", *v.ClassID)
	assert.Empty(t, f.FieldError("email"))

	f.SetClass("")
	us := f.Values().Update()
	assert.True(t, us.ClassID.Set)
	assert.False(t, us.ClassID.Valid)

	f.SetStatus("graduated")
	_, err = f.Submit()
	require.Error(t, err)
	assert.Equal(t, "Status inválido.", f.FieldError("status"))

	f.Reset(&forms.StudentValues{Name: "Gil", Email: "gil@email.com", Status: student.StatusActive})
	assert.False(t, f.WasSubmitted())
	assert.True(t, f.CanSubmit())
}

func TestSanitizeCapacity(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", ""},
		{"30", "30"},
		{" 12 ", "12"},
		{"12.9", "12"},
		{"-3", "0"},
		{"abc", "0"},
		{"12abc", "0"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, forms.SanitizeCapacity(tt.text))
		})
	}
}

func TestClassForm(t *testing.T) {
	validate, translator := testutil.NewValidator()
	f := forms.NewClassForm(validate, translator, nil)

	assert.Equal(t, "30", f.Capacity())
	assert.False(t, f.CanSubmit())

	f.SetName("Turma Química 301")
	f.SetCapacity("0")
	_, err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, forms.MsgClassCapacity, f.FieldError("capacity"))
	assert.Empty(t, f.FieldError("name"))

	f.SetCapacity("")
	assert.False(t, f.CanSubmit())

	f.SetCapacity("25.7")
	assert.Equal(t, "25", f.Capacity())
	v, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, forms.ClassValues{Name: "Turma Química 301", Capacity: 25}, v)

	n, err := v.NewClass().Capacity.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	f.SetName("   ")
	_, err = f.Submit()
	require.Error(t, err)
	assert.Equal(t, forms.MsgClassName, f.FieldError("name"))
}

func TestCriteriaForm_Rows(t *testing.T) {
	validate, translator := testutil.NewValidator()

	f := forms.NewCriteriaForm(validate, translator, nil)
	rows := f.Rows()
	require.Len(t, rows, 1)
	first := rows[0].FieldID
	assert.NotEmpty(t, first)

	// the last row cannot be removed
	f.RemoveRow(first)
	require.Len(t, f.Rows(), 1)

	second := f.AddRow()
	assert.NotEqual(t, first, second)
	f.SetName(second, "Seminário")
	f.RemoveRow(first)
	rows = f.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, second, rows[0].FieldID)
	assert.Equal(t, "Seminário", rows[0].Name)
}

func TestCriteriaForm_Weights(t *testing.T) {
	validate, translator := testutil.NewValidator()
	f := forms.NewCriteriaForm(validate, translator, []evaluation.Criterion{
		{ID: "criterion-1", Name: "Prova", Weight: 60},
		{ID: "criterion-2", Name: "Trabalho", Weight: 40},
	})
	rows := f.Rows()
	assert.Equal(t, float64(100), f.TotalWeight())
	assert.True(t, f.CanSubmit())

	f.SetWeight(rows[1].FieldID, "abc")
	require.NotNil(t, f.Rows()[1].Weight)
	assert.Equal(t, float64(40), *f.Rows()[1].Weight)

	f.SetWeight(rows[1].FieldID, "")
	assert.Nil(t, f.Rows()[1].Weight)
	assert.Equal(t, float64(60), f.TotalWeight())
	assert.False(t, f.IsTotalValid())

	_, err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, evaluation.MsgCriterionWeight, f.RowError(rows[1].FieldID, "weight"))
	assert.Equal(t, evaluation.MsgTotalWeight, f.FieldError("criteria"))

	f.SetWeight(rows[1].FieldID, "39.6")
	assert.True(t, f.IsTotalValid())
	uc, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "criterion-2", uc.Criteria[1].ID)
	assert.Empty(t, f.Errors())
}

func TestCriteriaForm_TotalRounding(t *testing.T) {
	validate, translator := testutil.NewValidator()

	// the total only has to round to 100
	tests := []struct {
		name   string
		weight string
		valid  bool
	}{
		{name: "exact", weight: "40", valid: true},
		{name: "rounds up", weight: "39.6", valid: true},
		{name: "rounds down", weight: "40.4", valid: true},
		{name: "too low", weight: "39.4", valid: false},
		{name: "too high", weight: "40.5", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := forms.NewCriteriaForm(validate, translator, []evaluation.Criterion{
				{Name: "Prova", Weight: 60},
				{Name: "Trabalho", Weight: 40},
			})
			f.SetWeight(f.Rows()[1].FieldID, tt.weight)
			assert.Equal(t, tt.valid, f.IsTotalValid())
			assert.Equal(t, tt.valid, f.CanSubmit())

			_, err := f.Submit()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, evaluation.MsgTotalWeight, f.FieldError("criteria"))
		})
	}
}

func TestCriteriaForm_DuplicateNames(t *testing.T) {
	validate, translator := testutil.NewValidator()
	f := forms.NewCriteriaForm(validate, translator, []evaluation.Criterion{
		{Name: "Prova", Weight: 40},
		{Name: " prova ", Weight: 30},
		{Name: "Trabalho", Weight: 30},
	})
	rows := f.Rows()
	assert.False(t, f.CanSubmit())

	_, err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, evaluation.MsgCriterionNameTaken, f.RowError(rows[0].FieldID, "name"))
	assert.Equal(t, evaluation.MsgCriterionNameTaken, f.RowError(rows[1].FieldID, "name"))
	assert.Empty(t, f.RowError(rows[2].FieldID, "name"))

	f.SetName(rows[1].FieldID, "Participação")
	uc, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Participação", uc.Criteria[1].Name)
}
