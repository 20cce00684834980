package main

import (
	"context"
	"fmt"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/dashboard"
	"github.com/trezcool/portal/forms"
	"github.com/trezcool/portal/state"
)

func (cli *commandLine) classes(ctx context.Context, args []string) error {
	sub, args := subcommand(args)

	cs := state.NewClasses(cli.svcs.Classes)
	defer cs.Close()
	if err := cs.Load(ctx); err != nil {
		return cli.alert(err)
	}

	switch sub {
	case "list":
		cli.printClasses(cs)
		return nil
	case "add":
		return cli.addClass(ctx, cs, args)
	case "update":
		return cli.updateClass(ctx, cs, args)
	case "delete":
		return cli.deleteClass(ctx, cs, args)
	default:
		return cli.unknownSubcommand("classes", "list", "add", "update", "delete")
	}
}

func (cli *commandLine) printClasses(cs *state.Classes) {
	classes := cs.Classes()
	if len(classes) == 0 {
		cli.printf("Nenhuma turma cadastrada.\n")
		return
	}

	tw := newTable(cli.out)
	cli.printRow(tw, "ID", "NOME", "ALUNOS", "OCUPAÇÃO")
	for _, c := range classes {
		pct := dashboard.OccupancyPercent(c.Enrolled(), c.Capacity)
		gauge := cli.paint(dashboard.OccupancyColor(pct), bar(pct))
		cli.printRow(tw, c.ID, c.Name, fmt.Sprintf("%d/%d", c.Enrolled(), c.Capacity), fmt.Sprintf("%s %d%%", gauge, pct))
	}
	_ = tw.Flush()

	sum := cs.Summary()
	cli.printf("\n%d turmas · %d lotadas · %d com vagas · %d/%d alunos · ocupação %d%%\n",
		sum.TotalClasses, sum.FilledClasses, sum.ClassesWithVacancies, sum.TotalEnrolled, sum.TotalCapacity, percent(sum.OccupancyRate))
}

func (cli *commandLine) addClass(ctx context.Context, cs *state.Classes, args []string) error {
	addCmd := cli.newFlagSet("classes add")
	name := addCmd.String("name", "", "The class name.")
	capacity := addCmd.String("capacity", "", "How many students the class can hold (default 30).")
	if err := parseFlags(addCmd, args); err != nil {
		return err
	}

	f := forms.NewClassForm(cli.validate, cli.translator, nil)
	f.SetName(*name)
	if visited(addCmd)["capacity"] {
		f.SetCapacity(*capacity)
	}
	values, err := f.Submit()
	if err != nil {
		return cli.alert(err)
	}

	class, err := cs.Create(ctx, values.NewClass())
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Turma %s criada (%s).\n", class.Name, class.ID)
	return nil
}

func (cli *commandLine) findClass(cs *state.Classes, ref string) (classroom.ClassRoom, error) {
	if ref == "" {
		return classroom.ClassRoom{}, errClassNotFound
	}
	return resolveClass(cs.Classes(), ref)
}

func (cli *commandLine) updateClass(ctx context.Context, cs *state.Classes, args []string) error {
	updateCmd := cli.newFlagSet("classes update")
	ref := updateCmd.String("class", "", "The class ID or name.")
	name := updateCmd.String("name", "", "The new class name.")
	capacity := updateCmd.String("capacity", "", "The new capacity.")
	if err := parseFlags(updateCmd, args); err != nil {
		return err
	}
	if *ref == "" {
		updateCmd.Usage()
		return errHelp
	}

	class, err := cli.findClass(cs, *ref)
	if err != nil {
		return cli.alert(err)
	}

	set := visited(updateCmd)
	f := forms.NewClassForm(cli.validate, cli.translator, &forms.ClassValues{Name: class.Name, Capacity: class.Capacity})
	if set["name"] {
		f.SetName(*name)
	}
	if set["capacity"] {
		f.SetCapacity(*capacity)
	}
	values, err := f.Submit()
	if err != nil {
		return cli.alert(err)
	}

	updated, err := cs.Update(ctx, class.ID, values.Update())
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Turma %s atualizada (capacidade %d).\n", updated.Name, updated.Capacity)
	return nil
}

func (cli *commandLine) deleteClass(ctx context.Context, cs *state.Classes, args []string) error {
	deleteCmd := cli.newFlagSet("classes delete")
	ref := deleteCmd.String("class", "", "The class ID or name.")
	if err := parseFlags(deleteCmd, args); err != nil {
		return err
	}
	if *ref == "" {
		deleteCmd.Usage()
		return errHelp
	}

	class, err := cli.findClass(cs, *ref)
	if err != nil {
		return cli.alert(err)
	}
	if err := cs.Delete(ctx, class.ID); err != nil {
		return cli.alert(err)
	}
	cli.printf("Turma %s removida. Os alunos matriculados ficaram sem turma.\n", class.Name)
	return nil
}
