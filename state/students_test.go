package state_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/client"
	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/student"
	"github.com/trezcool/portal/state"
	"github.com/trezcool/portal/tests"
)

func newStudents(t *testing.T) *state.Students {
	app := testutil.NewApp(t)
	svcs, _ := testutil.NewLoggedInClient(t, app)
	st := state.NewStudents(svcs.Students, svcs.Classes)
	require.NoError(t, st.Load(context.Background()))
	return st
}

func classByID(classes []classroom.ClassRoom, id string) classroom.ClassRoom {
	for _, c := range classes {
		if c.ID == id {
			return c
		}
	}
	return classroom.ClassRoom{}
}

func TestStudents_Load(t *testing.T) {
	st := state.NewStudents(&fakeStudents{}, &fakeClasses{})
	assert.True(t, st.IsLoading())

	st = newStudents(t)
	assert.False(t, st.IsLoading())
	assert.Nil(t, st.Err())
	assert.Len(t, st.Students(), 3)
	assert.Len(t, st.Classes(), 2)
}

func TestStudents_LoadFailure(t *testing.T) {
	ctx := context.Background()

	st := state.NewStudents(&fakeStudents{}, &fakeClasses{err: errors.New("Turmas indisponíveis.")})
	err := st.Load(ctx)
	require.Error(t, err)
	assert.False(t, st.IsLoading())
	require.NotNil(t, st.Err())
	assert.Equal(t, "Turmas indisponíveis.", st.Err().Message)

	st = state.NewStudents(&fakeStudents{err: errSilent}, &fakeClasses{})
	require.Error(t, st.Load(ctx))
	assert.Equal(t, "Erro inesperado ao processar operação com alunos.", st.Err().Message)

	st.ResetError()
	assert.Nil(t, st.Err())
}

func TestStudents_Create(t *testing.T) {
	st := newStudents(t)
	ctx := context.Background()

	created, err := st.Create(ctx, student.NewStudent{Name: "Eva Rocha", Email: "eva@email.com", Status: student.StatusActive})
	require.NoError(t, err)
	assert.Nil(t, created.ClassID)
	assert.Len(t, st.Students(), 4)
	assert.False(t, st.IsMutating())

	created, err = st.Create(ctx, student.NewStudent{
		Name:    "Fábio Reis",
		Email:   "fabio@email.com",
		ClassID: testutil.StrPtr("class-2"),
		Status:  student.StatusActive,
	})
	require.NoError(t, err)
	assert.Len(t, st.Students(), 5)
	// classes were reloaded with the new enrolment
	assert.True(t, classByID(st.Classes(), "class-2").HasStudent(created.ID))
}

func TestStudents_CreateInvalid(t *testing.T) {
	st := newStudents(t)
	ctx := context.Background()

	_, err := st.Create(ctx, student.NewStudent{Name: " ", Email: "x@email.com", Status: student.StatusActive})
	require.Error(t, err)
	require.NotNil(t, st.Err())
	assert.Equal(t, err.Error(), st.Err().Message)
	assert.False(t, st.IsMutating())
	assert.Len(t, st.Students(), 3)

	var svcErr *client.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Contains(t, svcErr.FieldErrors(), "name")

	// a successful mutation clears the error
	_, err = st.Create(ctx, student.NewStudent{Name: "Gil", Email: "gil@email.com", Status: student.StatusActive})
	require.NoError(t, err)
	assert.Nil(t, st.Err())
}

func TestStudents_Update(t *testing.T) {
	st := newStudents(t)
	ctx := context.Background()

	name := "Beatriz S. Souza"
	updated, err := st.Update(ctx, "student-1", student.UpdateStudent{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	for _, std := range st.Students() {
		if std.ID == "student-1" {
			assert.Equal(t, name, std.Name)
		}
	}
	assert.True(t, classByID(st.Classes(), "class-1").HasStudent("student-1"))

	_, err = st.Update(ctx, "student-1", student.UpdateStudent{ClassID: core.SomeID("class-2")})
	require.NoError(t, err)
	assert.False(t, classByID(st.Classes(), "class-1").HasStudent("student-1"))
	assert.True(t, classByID(st.Classes(), "class-2").HasStudent("student-1"))

	_, err = st.Update(ctx, "student-404", student.UpdateStudent{Name: &name})
	require.Error(t, err)
	assert.Equal(t, "Aluno não encontrado.", st.Err().Message)
}

func TestStudents_Delete(t *testing.T) {
	st := newStudents(t)
	ctx := context.Background()

	require.NoError(t, st.Delete(ctx, "student-2"))
	students := st.Students()
	assert.Len(t, students, 2)
	for _, std := range students {
		assert.NotEqual(t, "student-2", std.ID)
	}

	require.Error(t, st.Delete(ctx, "student-2"))
	assert.Len(t, st.Students(), 2)
}

func TestStudents_Close(t *testing.T) {
	students := &fakeStudents{students: []student.Student{{ID: "student-1"}}}
	st := state.NewStudents(students, &fakeClasses{})
	st.Close()

	require.NoError(t, st.Load(context.Background()))
	assert.Empty(t, st.Students())
	assert.True(t, st.IsLoading())
}
