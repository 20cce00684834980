package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/portal/client"
	"github.com/trezcool/portal/core/auth"
	"github.com/trezcool/portal/state"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp            = errors.New("help provided")
	errNotLoggedIn     = errors.New("Sessão não encontrada. Entre com `portal login -email EMAIL`.")
	errStudentNotFound = errors.New("Aluno não encontrado.")
	errClassNotFound   = errors.New("Turma não encontrada.")
)

type commandLine struct {
	out        io.Writer
	color      bool
	svcs       *client.Services
	validate   *validator.Validate
	translator ut.Translator
	auth       *state.Auth
}

func newCommandLine(out io.Writer, svcs *client.Services, validate *validator.Validate, translator ut.Translator) *commandLine {
	return &commandLine{
		out:        out,
		svcs:       svcs,
		validate:   validate,
		translator: translator,
		auth:       state.NewAuth(svcs.Auth),
	}
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  login -email EMAIL - sign in (the password is prompted next)\n")
	cli.printf("  logout - sign out\n")
	cli.printf("  whoami - show the signed-in teacher\n")
	cli.printf("  students list|add|update|delete - manage students\n")
	cli.printf("  classes list|add|update|delete - manage classes\n")
	cli.printf("  evaluations configs|upcoming|set|schedule - manage evaluation criteria and dates\n")
	cli.printf("  dashboard - show the overview\n")
}

// newFlagSet returns a flag set that reports parse errors instead of exiting.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// visited returns the names of the flags set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// multiFlag collects the values of a repeatable flag.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ", ")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "students":
		return cli.withSession(ctx, args[2:], cli.students)
	case "classes":
		return cli.withSession(ctx, args[2:], cli.classes)
	case "evaluations":
		return cli.withSession(ctx, args[2:], cli.evaluations)
	case "dashboard":
		return cli.withSession(ctx, args[2:], cli.dashboard)
	default:
		cli.printUsage()
		return errHelp
	}
}

// withSession restores the stored session before running cmd.
func (cli *commandLine) withSession(ctx context.Context, args []string, cmd func(context.Context, []string) error) error {
	if err := cli.auth.Restore(ctx); err != nil {
		return cli.alert(err)
	}
	if !cli.auth.IsAuthenticated() {
		return cli.alert(errNotLoggedIn)
	}
	return cmd(ctx, args)
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.newFlagSet("login")
	email := loginCmd.String("email", "", "The teacher's e-mail. The password will be prompted next.")
	if err := parseFlags(loginCmd, args); err != nil {
		return err
	}
	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}

	cli.printf("Senha: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		loginCmd.Usage()
		return errHelp
	}

	sess, err := cli.auth.Login(ctx, auth.Credentials{Email: *email, Password: string(pwd)})
	if err != nil {
		return cli.alert(err)
	}
	cli.printf("Bem-vinda, %s!\n", sess.User.Name)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.auth.Logout(ctx); err != nil {
		return cli.alert(err)
	}
	cli.printf("Sessão encerrada.\n")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	if err := cli.auth.Restore(ctx); err != nil {
		return cli.alert(err)
	}
	usr := cli.auth.User()
	if usr == nil {
		return cli.alert(errNotLoggedIn)
	}
	cli.printf("%s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}

func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func (cli *commandLine) unknownSubcommand(cmd string, subs ...string) error {
	cli.printf("Usage:\n  %s %s\n", cmd, strings.Join(subs, "|"))
	return errHelp
}
