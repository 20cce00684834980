package main

import (
	"context"
	"fmt"

	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/state"
)

func (cli *commandLine) dashboard(ctx context.Context, _ []string) error {
	d := state.NewDashboard(cli.svcs.Dashboard)
	defer d.Close()
	if err := d.Load(ctx); err != nil {
		return cli.alert(err)
	}
	view := d.Overview()

	cli.printf("Visão geral\n")
	cli.printf("  Alunos: %d · Turmas: %d · Alunos ativos: %d\n\n",
		view.Metrics.Students, view.Metrics.Classes, view.Metrics.ActiveStudents)

	cli.printf("Próxima avaliação\n")
	if next := view.NextEvaluation; next != nil {
		cli.printf("  %s  %s (%s)\n\n", formatDate(next.ScheduledAt), next.Title, next.ClassName)
	} else {
		cli.printf("  Nenhuma avaliação agendada.\n\n")
	}

	cli.printf("Alertas de capacidade\n")
	if len(view.CapacityAlerts) == 0 {
		cli.printf("  Nenhuma turma próxima da capacidade.\n")
	}
	for _, a := range view.CapacityAlerts {
		pct := cli.paint(dashboard.OccupancyColor(a.OccupancyPercent), fmt.Sprintf("%d%%", a.OccupancyPercent))
		cli.printf("  %s  %s (%d/%d)\n", a.Name, pct, a.TotalStudents, a.Capacity)
	}
	cli.printf("\n")

	cli.printf("Turmas sem avaliação agendada\n")
	if len(view.PendingEvaluations) == 0 {
		cli.printf("  Todas as turmas têm avaliações agendadas.\n")
	}
	for _, p := range view.PendingEvaluations {
		cli.printf("  %s · %d alunos · atualizada em %s\n", p.Name, p.StudentCount, formatDate(p.LastUpdatedAt))
	}
	cli.printf("\n")

	cli.printf("Configurações de avaliação\n")
	if len(view.EvaluationConfigs) == 0 {
		cli.printf("  Nenhuma configuração cadastrada.\n")
	}
	for _, c := range view.EvaluationConfigs {
		mark := cli.paint(dashboard.ColorGreen, "ok")
		if !c.IsWeightBalanced {
			mark = cli.paint(dashboard.ColorRed, "incompleta")
		}
		cli.printf("  %s · %d critérios · %g%% · %s\n", c.ClassName, c.CriteriaCount, c.TotalWeight, mark)
	}
	cli.printf("\n")

	status := view.StudentStatus
	cli.printf("Status dos alunos\n")
	engagement := cli.paint(dashboard.EngagementColor(status.EngagementPercent), fmt.Sprintf("%d%%", status.EngagementPercent))
	cli.printf("  Ativos: %d · Inativos: %d · Total: %d · Engajamento: %s\n",
		status.Active, status.Inactive, status.Total, engagement)
	return nil
}
