package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/student"
	"github.com/trezcool/portal/state"
	"github.com/trezcool/portal/tests"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		classes []classroom.ClassRoom
		want    state.ClassesSummary
	}{
		{name: "empty", want: state.ClassesSummary{}},
		{
			name: "mixed",
			classes: []classroom.ClassRoom{
				{ID: "a", Capacity: 2, StudentIDs: []string{"s1", "s2"}},
				{ID: "b", Capacity: 4, StudentIDs: []string{"s3"}},
				{ID: "c", Capacity: 2},
			},
			want: state.ClassesSummary{
				TotalClasses:         3,
				FilledClasses:        1,
				ClassesWithVacancies: 2,
				TotalCapacity:        8,
				TotalEnrolled:        3,
				OccupancyRate:        0.375,
			},
		},
		{
			name:    "over capacity counts as filled",
			classes: []classroom.ClassRoom{{ID: "a", Capacity: 1, StudentIDs: []string{"s1", "s2"}}},
			want: state.ClassesSummary{
				TotalClasses:  1,
				FilledClasses: 1,
				TotalCapacity: 1,
				TotalEnrolled: 2,
				OccupancyRate: 2,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.Summarize(tt.classes))
		})
	}
}

func newClasses(t *testing.T) (*state.Classes, *testutil.App) {
	app := testutil.NewApp(t)
	svcs, _ := testutil.NewLoggedInClient(t, app)
	cs := state.NewClasses(svcs.Classes)
	require.NoError(t, cs.Load(context.Background()))
	return cs, app
}

func TestClasses_Load(t *testing.T) {
	cs, _ := newClasses(t)
	assert.False(t, cs.IsLoading())
	assert.Len(t, cs.Classes(), 2)

	sum := cs.Summary()
	assert.Equal(t, 2, sum.TotalClasses)
	assert.Equal(t, 65, sum.TotalCapacity)
	assert.Equal(t, 3, sum.TotalEnrolled)
	assert.Equal(t, 2, sum.ClassesWithVacancies)
	assert.Zero(t, sum.FilledClasses)
}

func TestClasses_Mutations(t *testing.T) {
	cs, _ := newClasses(t)
	ctx := context.Background()

	created, err := cs.Create(ctx, classroom.NewClass{Name: "Turma Química 301", Capacity: classroom.NewCapacity(1)})
	require.NoError(t, err)
	assert.Len(t, cs.Classes(), 3)
	assert.Equal(t, 66, cs.Summary().TotalCapacity)

	updated, err := cs.Update(ctx, created.ID, classroom.UpdateClass{Capacity: classroom.NewCapacity(40)})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Capacity)
	assert.Equal(t, 105, cs.Summary().TotalCapacity)

	require.NoError(t, cs.Delete(ctx, created.ID))
	assert.Len(t, cs.Classes(), 2)
	assert.Equal(t, 65, cs.Summary().TotalCapacity)
}

func TestClasses_CapacityBelowEnrolment(t *testing.T) {
	cs, app := newClasses(t)
	ctx := context.Background()
	testutil.CreateStudent(t, app.StudentSvc, "Eva Rocha", "eva@email.com", testutil.StrPtr("class-1"), student.StatusActive)

	_, err := cs.Update(ctx, "class-1", classroom.UpdateClass{Capacity: classroom.NewCapacity(2)})
	require.Error(t, err)
	require.NotNil(t, cs.Err())
	assert.Equal(t, "A capacidade não pode ser menor que o número de alunos matriculados.", cs.Err().Message)
	assert.Equal(t, 35, classByID(cs.Classes(), "class-1").Capacity)
}

func TestClasses_FallbackError(t *testing.T) {
	cs := state.NewClasses(&fakeClasses{err: errSilent})
	require.Error(t, cs.Load(context.Background()))
	assert.Equal(t, "Erro inesperado ao processar operação com turmas.", cs.Err().Message)

	_, err := cs.Create(context.Background(), classroom.NewClass{Name: "x"})
	require.Error(t, err)
	assert.False(t, cs.IsMutating())
}
