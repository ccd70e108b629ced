package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aryankumar/tabmon/internal/cli"
	"github.com/aryankumar/tabmon/internal/util"
)

func main() {
	ctx, stop := util.SetupSignalHandler(context.Background(), nil)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		slog.Error("command failed", "error", err, "hint", util.FriendlyError(err))
		os.Exit(1)
	}
}
