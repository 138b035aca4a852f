// Command shipwright generates and manages the files and database of a web
// project.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jrey8343/shipwright/cmd/cmdenv"
	"github.com/jrey8343/shipwright/cmd/db"
	"github.com/jrey8343/shipwright/cmd/generate"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shipwright",
		Short:         "Scaffold and manage a Go web project",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmdenv.RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(generate.NewGenerateCommand())
	rootCmd.AddCommand(db.NewDBCommand())
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
		cmdenv.NewConsole(cmd).Error(err)
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}
