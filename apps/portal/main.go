package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/portal/client"
	"github.com/trezcool/portal/core"
	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
	logsvc "github.com/trezcool/portal/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	classroom.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)

	c := client.New(conf.Client, client.NewFileTokenStore(conf.Client.TokenFile), client.WithLogger(logger))

	// start CLI
	cli := newCommandLine(os.Stdout, client.NewServices(c), validate, translator)
	cli.color = term.IsTerminal(int(os.Stdout.Fd()))
	if err := cli.run(os.Args); err != nil {
		var shown *alertError
		if err != errHelp && !errors.As(err, &shown) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
