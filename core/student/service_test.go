package student_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/student"
	inmemdb "github.com/trezcool/portal/storage/database/inmem"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	return validate
}

func TestUpdateStudent_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name      string
		json      string
		wantErr   bool
		wantClass core.NullableID
	}{
		{name: "empty", json: `{}`},
		{name: "detach", json: `{"classId": null}`, wantClass: core.NullID()},
		{name: "blank class detaches", json: `{"classId": "  "}`, wantClass: core.NullID()},
		{name: "move", json: `{"classId": "class-2"}`, wantClass: core.SomeID("class-2")},
		{name: "blank name", json: `{"name": " "}`, wantErr: true},
		{name: "bad status", json: `{"status": "lol"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var us student.UpdateStudent
			require.NoError(t, json.Unmarshal([]byte(tt.json), &us))
			err := us.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantClass, us.ClassID)
			assert.Equal(t, tt.wantClass.Set, us.TouchesClass())
		})
	}
}

func TestUpdateStudent_MarshalJSON(t *testing.T) {
	name := "Ana"
	out, err := json.Marshal(student.UpdateStudent{Name: &name, ClassID: core.NullID()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Ana", "classId": null}`, string(out))

	out, err = json.Marshal(student.UpdateStudent{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestService(t *testing.T) {
	db, err := inmemdb.OpenSeeded()
	require.NoError(t, err)
	svc := student.NewService(inmemdb.NewStudentRepository(db))
	ctx := context.Background()

	blank := "  "
	std, err := svc.Create(ctx, student.NewStudent{Name: " Eva ", Email: "eva@email.com", ClassID: &blank, Status: student.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "Eva", std.Name)
	assert.Nil(t, std.ClassID)

	unknown := "class-404"
	_, err = svc.Create(ctx, student.NewStudent{Name: "Eva", Email: "eva@email.com", ClassID: &unknown, Status: student.StatusActive})
	if assert.Error(t, err) {
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, student.ErrClassNotFound, vErr.Err)
		assert.Equal(t, "Turma não encontrada.", vErr.FieldMap()["classId"])
	}

	std, err = svc.Update(ctx, std.ID, student.UpdateStudent{ClassID: core.SomeID("class-1")})
	require.NoError(t, err)
	assert.True(t, std.InClass("class-1"))

	_, err = svc.Update(ctx, "student-404", student.UpdateStudent{})
	assert.Equal(t, student.ErrNotFound, err)

	require.NoError(t, svc.Delete(ctx, std.ID))
	_, err = svc.Get(ctx, std.ID)
	assert.Equal(t, student.ErrNotFound, err)
}
