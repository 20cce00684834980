package main

import (
	"context"

	"github.com/trezcool/portal/core/student"
	"github.com/trezcool/portal/forms"
	"github.com/trezcool/portal/state"
)

func (cli *commandLine) students(ctx context.Context, args []string) error {
	sub, args := subcommand(args)

	st := state.NewStudents(cli.svcs.Students, cli.svcs.Classes)
	defer st.Close()
	if err := st.Load(ctx); err != nil {
		return cli.alert(err)
	}

	switch sub {
	case "list":
		cli.printStudents(st)
		return nil
	case "add":
		return cli.addStudent(ctx, st, args)
	case "update":
		return cli.updateStudent(ctx, st, args)
	case "delete":
		return cli.deleteStudent(ctx, st, args)
	default:
		return cli.unknownSubcommand("students", "list", "add", "update", "delete")
	}
}

func (cli *commandLine) printStudents(st *state.Students) {
	names := classNames(st.Classes())
	students := st.Students()
	if len(students) == 0 {
		cli.printf("Nenhum aluno cadastrado.\n")
		return
	}

	tw := newTable(cli.out)
	cli.printRow(tw, "ID", "NOME", "E-MAIL", "TURMA", "STATUS")
	for _, std := range students {
		cli.printRow(tw, std.ID, std.Name, std.Email, classLabel(names, std.ClassID), statusLabel(std.Status))
	}
	_ = tw.Flush()
}

type studentFlags struct {
	name, email, class, status *string
	noClass                    *bool
}

// applyStudentFlags copies the flags that were set into the form. The class may be given by ID or name.
func (cli *commandLine) applyStudentFlags(f *forms.StudentForm, st *state.Students, flags studentFlags, set map[string]bool) error {
	if set["name"] {
		f.SetName(*flags.name)
	}
	if set["email"] {
		f.SetEmail(*flags.email)
	}
	if set["status"] {
		f.SetStatus(student.Status(*flags.status))
	}
	if flags.noClass != nil && *flags.noClass {
		f.SetClass("")
	} else if set["class"] {
		if *flags.class == "" {
			f.SetClass("")
			return nil
		}
		class, err := resolveClass(st.Classes(), *flags.class)
		if err != nil {
			return err
		}
		f.SetClass(class.ID)
	}
	return nil
}

func (cli *commandLine) addStudent(ctx context.Context, st *state.Students, args []string) error {
	addCmd := cli.newFlagSet("students add")
	flags := studentFlags{
		name:   addCmd.String("name", "", "The student's full name."),
		email:  addCmd.String("email", "", "The student's e-mail."),
		class:  addCmd.String("class", "", "The class ID or name (optional)."),
		status: addCmd.String("status", string(student.StatusActive), "active|inactive"),
	}
	if err := parseFlags(addCmd, args); err != nil {
		return err
	}

	f := forms.NewStudentForm(cli.validate, cli.translator, nil)
	if err := cli.applyStudentFlags(f, st, flags, visited(addCmd)); err != nil {
		return cli.alert(err)
	}
	values, err := f.Submit()
	if err != nil {
		return cli.alert(err)
	}

	std, err := st.Create(ctx, values.NewStudent())
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Aluno %s cadastrado (%s).\n", std.Name, std.ID)
	return nil
}

func (cli *commandLine) updateStudent(ctx context.Context, st *state.Students, args []string) error {
	updateCmd := cli.newFlagSet("students update")
	id := updateCmd.String("id", "", "The student's ID.")
	flags := studentFlags{
		name:    updateCmd.String("name", "", "The student's full name."),
		email:   updateCmd.String("email", "", "The student's e-mail."),
		class:   updateCmd.String("class", "", "The class ID or name."),
		status:  updateCmd.String("status", "", "active|inactive"),
		noClass: updateCmd.Bool("no-class", false, "Remove the student from their class."),
	}
	if err := parseFlags(updateCmd, args); err != nil {
		return err
	}
	if *id == "" {
		updateCmd.Usage()
		return errHelp
	}

	var current *student.Student
	for _, std := range st.Students() {
		if std.ID == *id {
			std := std
			current = &std
			break
		}
	}
	if current == nil {
		return cli.alert(errStudentNotFound)
	}

	values := forms.StudentValuesOf(*current)
	f := forms.NewStudentForm(cli.validate, cli.translator, &values)
	if err := cli.applyStudentFlags(f, st, flags, visited(updateCmd)); err != nil {
		return cli.alert(err)
	}
	values, err := f.Submit()
	if err != nil {
		return cli.alert(err)
	}

	std, err := st.Update(ctx, *id, values.Update())
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Aluno %s atualizado.\n", std.Name)
	return nil
}

func (cli *commandLine) deleteStudent(ctx context.Context, st *state.Students, args []string) error {
	deleteCmd := cli.newFlagSet("students delete")
	id := deleteCmd.String("id", "", "The student's ID.")
	if err := parseFlags(deleteCmd, args); err != nil {
		return err
	}
	if *id == "" {
		deleteCmd.Usage()
		return errHelp
	}

	if err := st.Delete(ctx, *id); err != nil {
		return cli.alert(err)
	}
	cli.printf("Aluno %s removido.\n", *id)
	return nil
}
