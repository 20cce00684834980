package main

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/forms"
	"github.com/trezcool/portal/state"
)

func (cli *commandLine) evaluations(ctx context.Context, args []string) error {
	sub, args := subcommand(args)

	ev := state.NewEvaluations(cli.svcs.Evaluations, cli.svcs.Classes)
	defer ev.Close()
	if err := ev.Load(ctx); err != nil {
		return cli.alert(err)
	}

	switch sub {
	case "configs":
		cli.printConfigs(ev)
		return nil
	case "upcoming":
		cli.printUpcoming(ev)
		return nil
	case "set":
		return cli.setCriteria(ctx, ev, args)
	case "schedule":
		return cli.scheduleEvaluation(ctx, ev, args)
	default:
		return cli.unknownSubcommand("evaluations", "configs", "upcoming", "set", "schedule")
	}
}

func (cli *commandLine) printConfigs(ev *state.Evaluations) {
	classes := ev.Classes()
	if len(classes) == 0 {
		cli.printf("Nenhuma turma cadastrada.\n")
		return
	}

	for _, c := range classes {
		cli.printf("%s\n", c.Name)
		cfg, ok := ev.Config(c.ID)
		if !ok || len(cfg.Criteria) == 0 {
			cli.printf("  Nenhum critério configurado.\n\n")
			continue
		}
		for _, cr := range cfg.Criteria {
			cli.printf("  - %s: %g%%\n", cr.Name, cr.Weight)
		}
		total, balanced := ev.WeightTotal(c.ID)
		cli.printf("  Total: %g%%\n", total)
		if !balanced {
			cli.printf("! %s\n", evaluation.MsgTotalWeight)
		}
		cli.printf("\n")
	}
}

func (cli *commandLine) printUpcoming(ev *state.Evaluations) {
	upcoming := ev.Upcoming()
	if len(upcoming) == 0 {
		cli.printf("Nenhuma avaliação agendada.\n")
		return
	}

	names := classNames(ev.Classes())
	tw := newTable(cli.out)
	cli.printRow(tw, "DATA", "AVALIAÇÃO", "TURMA")
	for _, u := range upcoming {
		classID := u.ClassID
		cli.printRow(tw, formatDate(u.ScheduledAt), u.Title, classLabel(names, &classID))
	}
	_ = tw.Flush()
}

// parseCriterion splits "Nome:Peso" at the last colon.
func parseCriterion(s string) (name, weight string, err error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", "", errors.Errorf("Critério %q inválido. Use o formato Nome:Peso.", s)
	}
	return s[:i], s[i+1:], nil
}

func (cli *commandLine) setCriteria(ctx context.Context, ev *state.Evaluations, args []string) error {
	setCmd := cli.newFlagSet("evaluations set")
	ref := setCmd.String("class", "", "The class ID or name.")
	var criteria multiFlag
	setCmd.Var(&criteria, "criterion", `A criterion as "Nome:Peso"; repeat for each criterion.`)
	if err := parseFlags(setCmd, args); err != nil {
		return err
	}
	if *ref == "" || len(criteria) == 0 {
		setCmd.Usage()
		return errHelp
	}

	class, err := resolveClass(ev.Classes(), *ref)
	if err != nil {
		return cli.alert(err)
	}

	// criteria keep their ID when their name is unchanged
	existing := make(map[string]string)
	if cfg, ok := ev.Config(class.ID); ok {
		for _, cr := range cfg.Criteria {
			existing[core.CleanString(cr.Name, true /* lower */)] = cr.ID
		}
	}

	defaults := make([]evaluation.Criterion, len(criteria))
	weights := make([]string, len(criteria))
	for i, c := range criteria {
		name, weight, err := parseCriterion(c)
		if err != nil {
			return cli.alert(err)
		}
		defaults[i] = evaluation.Criterion{ID: existing[core.CleanString(name, true /* lower */)], Name: name}
		weights[i] = weight
	}

	f := forms.NewCriteriaForm(cli.validate, cli.translator, defaults)
	for i, row := range f.Rows() {
		f.SetWeight(row.FieldID, weights[i])
	}
	uc, err := f.Submit()
	if err != nil {
		return cli.alert(err)
	}

	cfg, err := ev.UpdateConfig(ctx, class.ID, uc)
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Critérios de %s atualizados (%d critérios, total %g%%).\n", class.Name, len(cfg.Criteria), cfg.TotalWeight())
	return nil
}

func (cli *commandLine) scheduleEvaluation(ctx context.Context, ev *state.Evaluations, args []string) error {
	scheduleCmd := cli.newFlagSet("evaluations schedule")
	ref := scheduleCmd.String("class", "", "The class ID or name.")
	title := scheduleCmd.String("title", "", "The evaluation title.")
	at := scheduleCmd.String("at", "", "When it takes place, in RFC 3339 (2006-01-02T15:04:05-03:00).")
	if err := parseFlags(scheduleCmd, args); err != nil {
		return err
	}
	if *ref == "" || *title == "" || *at == "" {
		scheduleCmd.Usage()
		return errHelp
	}

	class, err := resolveClass(ev.Classes(), *ref)
	if err != nil {
		return cli.alert(err)
	}
	when, err := time.Parse(time.RFC3339, *at)
	if err != nil {
		return cli.alert(errors.Errorf("Data %q inválida. Use o formato RFC 3339.", *at))
	}

	u, err := ev.Schedule(ctx, evaluation.NewUpcoming{ClassID: class.ID, Title: *title, ScheduledAt: when})
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("%s agendada para %s (%s).\n", u.Title, formatDate(u.ScheduledAt), class.Name)
	return nil
}
