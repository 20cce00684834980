package evaluation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/evaluation"
	inmemdb "github.com/trezcool/portal/storage/database/inmem"
)

func TestBalance(t *testing.T) {
	assert.True(t, evaluation.IsBalanced(100))
	assert.True(t, evaluation.IsBalanced(33.3+33.3+33.4))
	assert.False(t, evaluation.IsBalanced(99.6))
	assert.True(t, evaluation.RoundsToBalanced(99.6))
	assert.True(t, evaluation.RoundsToBalanced(100.4))
	assert.False(t, evaluation.RoundsToBalanced(100.5))
	assert.False(t, evaluation.RoundsToBalanced(90))

	cfg := evaluation.Config{Criteria: []evaluation.Criterion{{Weight: 60}, {Weight: 40}}}
	assert.Equal(t, 100.0, cfg.TotalWeight())
	assert.True(t, cfg.IsBalanced())
}

func TestCheckCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria []evaluation.CriterionInput
		want     map[string]string
	}{
		{
			name: "valid",
			criteria: []evaluation.CriterionInput{
				{Name: "Prova", Weight: 70},
				{Name: "Trabalho", Weight: 30},
			},
		},
		{
			name: "empty",
			want: map[string]string{"criteria": evaluation.MsgNoCriteria},
		},
		{
			name: "blank name and zero weight",
			criteria: []evaluation.CriterionInput{
				{Name: "  ", Weight: 0},
				{Name: "Prova", Weight: 100},
			},
			want: map[string]string{
				"criteria[0].name":   evaluation.MsgCriterionNameRequired,
				"criteria[0].weight": evaluation.MsgCriterionWeight,
			},
		},
		{
			name: "duplicated names are flagged on every row",
			criteria: []evaluation.CriterionInput{
				{Name: "Prova", Weight: 50},
				{Name: " prova ", Weight: 50},
			},
			want: map[string]string{
				"criteria[0].name": evaluation.MsgCriterionNameTaken,
				"criteria[1].name": evaluation.MsgCriterionNameTaken,
			},
		},
		{
			name: "unbalanced",
			criteria: []evaluation.CriterionInput{
				{Name: "Prova", Weight: 50},
				{Name: "Trabalho", Weight: 30},
			},
			want: map[string]string{"criteria": evaluation.MsgTotalWeight},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flds := evaluation.CheckCriteria(tt.criteria)
			if tt.want == nil {
				assert.Empty(t, flds)
				return
			}
			assert.Equal(t, tt.want, core.ValidationError{Fields: flds}.FieldMap())
		})
	}
}

func TestSortUpcoming(t *testing.T) {
	now := time.Now()
	upcoming := []evaluation.Upcoming{
		{ID: "c", ScheduledAt: now.Add(2 * time.Hour)},
		{ID: "a", ScheduledAt: now},
		{ID: "b", ScheduledAt: now},
	}
	evaluation.SortUpcoming(upcoming)
	assert.Equal(t, "a", upcoming[0].ID)
	assert.Equal(t, "b", upcoming[1].ID)
	assert.Equal(t, "c", upcoming[2].ID)
}

func TestService(t *testing.T) {
	db, err := inmemdb.OpenSeeded()
	require.NoError(t, err)
	svc := evaluation.NewService(inmemdb.NewEvaluationRepository(db))
	ctx := context.Background()

	cfg, err := svc.UpdateConfig(ctx, "class-1", evaluation.UpdateConfig{Criteria: []evaluation.CriterionInput{
		{ID: "criterion-1", Name: " Prova 1 ", Weight: 40},
		{Name: "Seminário", Weight: 60},
	}})
	require.NoError(t, err)
	require.Len(t, cfg.Criteria, 2)
	assert.Equal(t, "criterion-1", cfg.Criteria[0].ID)
	assert.Equal(t, "Prova 1", cfg.Criteria[0].Name)
	assert.NotEmpty(t, cfg.Criteria[1].ID)

	_, err = svc.UpdateConfig(ctx, "class-404", evaluation.UpdateConfig{Criteria: []evaluation.CriterionInput{{Name: "X", Weight: 100}}})
	assert.Error(t, err)

	upc, err := svc.Schedule(ctx, evaluation.NewUpcoming{ClassID: "class-2", Title: " Quiz ", ScheduledAt: core.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Quiz", upc.Title)

	upcoming, err := svc.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, upc.ID, upcoming[0].ID)
}
