package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	uierrs "github.com/cppforlife/go-cli-ui/errors"
	"github.com/nao1215/mysqlxml2csv/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	command := cli.NewDefaultRootCmd()

	err := command.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mysqlxml2csv: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
