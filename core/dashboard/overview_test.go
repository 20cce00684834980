package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

func classID(id string) *string {
	return &id
}

func testSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Classes: []classroom.ClassRoom{
			{ID: "class-1", Name: "Cheia", Capacity: 5, UpdatedAt: now},
			{ID: "class-2", Name: "Quase", Capacity: 5, UpdatedAt: now},
			{ID: "class-3", Name: "Vazia", Capacity: 10, UpdatedAt: now},
			{ID: "class-4", Name: "Sem capacidade", Capacity: 0, UpdatedAt: now},
		},
		Students: []student.Student{
			{ID: "s1", ClassID: classID("class-1"), Status: student.StatusActive},
			{ID: "s2", ClassID: classID("class-1"), Status: student.StatusActive},
			{ID: "s3", ClassID: classID("class-1"), Status: student.StatusActive},
			{ID: "s4", ClassID: classID("class-1"), Status: student.StatusInactive},
			{ID: "s5", ClassID: classID("class-1"), Status: student.StatusActive},
			{ID: "s6", ClassID: classID("class-2"), Status: student.StatusActive},
			{ID: "s7", ClassID: classID("class-2"), Status: student.StatusActive},
			{ID: "s8", ClassID: classID("class-2"), Status: student.StatusActive},
			{ID: "s9", ClassID: classID("class-2"), Status: student.StatusInactive},
			{ID: "s10", Status: student.StatusActive},
		},
		EvaluationConfigs: []evaluation.Config{
			{ClassID: "class-1", Criteria: []evaluation.Criterion{{Weight: 60}, {Weight: 40}}, UpdatedAt: now.Add(-time.Hour)},
			{ClassID: "class-gone", Criteria: []evaluation.Criterion{{Weight: 50}}, UpdatedAt: now},
		},
		UpcomingEvaluations: []evaluation.Upcoming{
			{ID: "e2", ClassID: "class-2", Title: "Depois", ScheduledAt: now.Add(48 * time.Hour)},
			{ID: "e1", ClassID: "class-gone", Title: "Antes", ScheduledAt: now.Add(time.Hour)},
		},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	view := Build(testSnapshot(now))

	assert.Equal(t, Metrics{Students: 10, Classes: 4, ActiveStudents: 8}, view.Metrics)

	require.Len(t, view.Evaluations, 2)
	assert.Equal(t, "e1", view.Evaluations[0].ID)
	assert.Equal(t, UnknownClassName, view.Evaluations[0].ClassName)
	require.NotNil(t, view.NextEvaluation)
	assert.Equal(t, "e1", view.NextEvaluation.ID)

	require.Len(t, view.ClassSummaries, 4)
	assert.Equal(t, ClassSummary{ID: "class-1", Name: "Cheia", Capacity: 5, TotalStudents: 5, ActiveCount: 4, InactiveCount: 1, OccupancyPercent: 100}, view.ClassSummaries[0])
	assert.Equal(t, 0, view.ClassSummaries[3].OccupancyPercent)

	// highest occupancy first; classes without capacity never alert
	require.Len(t, view.CapacityAlerts, 2)
	assert.Equal(t, "class-1", view.CapacityAlerts[0].ID)
	assert.Equal(t, "class-2", view.CapacityAlerts[1].ID)
	assert.Equal(t, 80, view.CapacityAlerts[1].OccupancyPercent)

	require.Len(t, view.PendingEvaluations, 3)
	assert.Equal(t, "class-1", view.PendingEvaluations[0].ID)
	assert.Equal(t, 5, view.PendingEvaluations[0].StudentCount)

	require.Len(t, view.EvaluationConfigs, 2)
	assert.Equal(t, UnknownClassName, view.EvaluationConfigs[0].ClassName)
	assert.False(t, view.EvaluationConfigs[0].IsWeightBalanced)
	assert.Equal(t, "Cheia", view.EvaluationConfigs[1].ClassName)
	assert.True(t, view.EvaluationConfigs[1].IsWeightBalanced)

	assert.Equal(t, StudentStatus{Active: 8, Inactive: 2, Total: 10, EngagementPercent: 80}, view.StudentStatus)
}

func TestBuild_Empty(t *testing.T) {
	view := Build(Snapshot{})
	assert.Nil(t, view.NextEvaluation)
	assert.Empty(t, view.CapacityAlerts)
	assert.NotNil(t, view.CapacityAlerts)
	assert.Equal(t, StudentStatus{}, view.StudentStatus)
}

func TestOccupancyPercent(t *testing.T) {
	assert.Equal(t, 0, OccupancyPercent(3, 0))
	assert.Equal(t, 33, OccupancyPercent(1, 3))
	assert.Equal(t, 67, OccupancyPercent(2, 3))
	assert.Equal(t, 100, OccupancyPercent(7, 5))
}

func TestColors(t *testing.T) {
	tests := []struct {
		percent    int
		occupancy  string
		engagement string
	}{
		{0, ColorBlue, ColorRed},
		{39, ColorBlue, ColorRed},
		{40, ColorYellow, ColorYellow},
		{69, ColorYellow, ColorYellow},
		{70, ColorRed, ColorGreen},
		{100, ColorRed, ColorGreen},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.occupancy, OccupancyColor(tt.percent), tt.percent)
		assert.Equal(t, tt.engagement, EngagementColor(tt.percent), tt.percent)
	}
}

func TestMemo(t *testing.T) {
	var memo Memo
	assert.Equal(t, 0, memo.Overview(nil).Metrics.Classes)

	snap := testSnapshot(time.Now())
	first := memo.Overview(&snap)
	assert.Equal(t, 4, first.Metrics.Classes)

	// same snapshot pointer: the cached view is returned even if the data changed underneath
	snap.Classes = snap.Classes[:1]
	assert.Equal(t, 4, memo.Overview(&snap).Metrics.Classes)

	other := testSnapshot(time.Now())
	other.Classes = other.Classes[:2]
	assert.Equal(t, 2, memo.Overview(&other).Metrics.Classes)
}
