package forms

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/evaluation"
)

// CriterionRow is one editable criterion. FieldID identifies the row for as long as the form lives;
// ID is the criterion's own ID, empty for new ones. A nil Weight is a cleared input.
type CriterionRow struct {
	FieldID string
	ID      string
	Name    string
	Weight  *float64
}

func newFieldID() string {
	return "criterion-field-" + strings.SplitN(uuid.New().String(), "-", 2)[0]
}

func weightPtr(w float64) *float64 {
	return &w
}

// CriteriaForm edits the criteria of a class. It always keeps at least one row.
type CriteriaForm struct {
	form
	rows []CriterionRow
}

func NewCriteriaForm(validate *validator.Validate, translator ut.Translator, defaults []evaluation.Criterion) *CriteriaForm {
	f := &CriteriaForm{form: newForm(validate, translator, nil)}
	f.Reset(defaults)
	return f
}

// Reset loads criteria as fresh rows; with none, the form starts with a single empty row.
func (f *CriteriaForm) Reset(defaults []evaluation.Criterion) {
	f.rows = make([]CriterionRow, 0, len(defaults))
	for _, cr := range defaults {
		f.rows = append(f.rows, CriterionRow{FieldID: newFieldID(), ID: cr.ID, Name: cr.Name, Weight: weightPtr(cr.Weight)})
	}
	if len(f.rows) == 0 {
		f.rows = append(f.rows, CriterionRow{FieldID: newFieldID(), Weight: weightPtr(0)})
	}
	f.reset()
}

func (f *CriteriaForm) Rows() []CriterionRow {
	return append([]CriterionRow(nil), f.rows...)
}

func (f *CriteriaForm) row(fieldID string) *CriterionRow {
	for i := range f.rows {
		if f.rows[i].FieldID == fieldID {
			return &f.rows[i]
		}
	}
	return nil
}

// AddRow appends an empty criterion and returns its field ID.
func (f *CriteriaForm) AddRow() string {
	r := CriterionRow{FieldID: newFieldID(), Weight: weightPtr(0)}
	f.rows = append(f.rows, r)
	return r.FieldID
}

// RemoveRow drops a row, unless it is the last one.
func (f *CriteriaForm) RemoveRow(fieldID string) {
	if len(f.rows) == 1 {
		return
	}
	rows := f.rows[:0]
	for _, r := range f.rows {
		if r.FieldID != fieldID {
			rows = append(rows, r)
		}
	}
	f.rows = rows
}

func (f *CriteriaForm) SetName(fieldID, name string) {
	if r := f.row(fieldID); r != nil {
		r.Name = name
	}
}

// SetWeight applies typed text: "" clears the weight and text that is not a number is ignored.
func (f *CriteriaForm) SetWeight(fieldID, text string) {
	r := f.row(fieldID)
	if r == nil {
		return
	}
	if text == "" {
		r.Weight = nil
		return
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return
	}
	r.Weight = &w
}

func (f *CriteriaForm) inputs() []evaluation.CriterionInput {
	inputs := make([]evaluation.CriterionInput, len(f.rows))
	for i, r := range f.rows {
		inputs[i] = evaluation.CriterionInput{ID: r.ID, Name: core.CleanString(r.Name)}
		if r.Weight != nil {
			inputs[i].Weight = *r.Weight
		}
	}
	return inputs
}

// TotalWeight sums the weights, counting cleared ones as zero.
func (f *CriteriaForm) TotalWeight() float64 {
	return evaluation.TotalWeight(f.inputs())
}

func (f *CriteriaForm) IsTotalValid() bool {
	return evaluation.RoundsToBalanced(f.TotalWeight())
}

func (f *CriteriaForm) CanSubmit() bool {
	return len(evaluation.CheckCriteria(f.inputs())) == 0
}

// RowError returns the error shown for a row's "name" or "weight" input.
func (f *CriteriaForm) RowError(fieldID, input string) string {
	for i, r := range f.rows {
		if r.FieldID == fieldID {
			return f.FieldError("criteria[" + strconv.Itoa(i) + "]." + input)
		}
	}
	return ""
}

// Submit returns the trimmed criteria, or a *core.ValidationError with one entry per broken rule.
func (f *CriteriaForm) Submit() (evaluation.UpdateConfig, error) {
	uc := evaluation.UpdateConfig{Criteria: f.inputs()}
	if err := f.attempt(evaluation.CheckCriteria(uc.Criteria)); err != nil {
		return evaluation.UpdateConfig{}, err
	}
	if err := uc.Validate(f.validate); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return evaluation.UpdateConfig{}, err
		}
		return evaluation.UpdateConfig{}, f.attempt(core.TranslateValidationErrors(vErrs, f.translator))
	}
	return uc, nil
}
