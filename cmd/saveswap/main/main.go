package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/saveswap/cmd/saveswap"
	"github.com/pterm/pterm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := saveswap.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err.Error())
		stop()
		os.Exit(1)
	}
}
