package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/coincollector-backend/internal/app"
	"github.com/yungbote/coincollector-backend/internal/importer"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
)

func main() {
	owner := flag.String("owner", "", "username that will own the imported groups")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: import -owner <username> file.yaml...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *owner == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.NewCore(ctx)
	if err != nil {
		fmt.Printf("Failed to init: %v\n", err)
		os.Exit(1)
	}
	defer core.Close()

	user, err := core.Storage.Users.GetByUsername(dbctx.New(ctx), *owner)
	if err != nil {
		core.Log.Error("Unknown owner", "username", *owner, "error", err)
		core.Close()
		os.Exit(1)
	}

	imp := importer.New(core.Log, core.Storage.Runner, core.Storage.Groups, core.Storage.Coins)
	sum, err := imp.ImportFiles(ctx, user.ID, flag.Args())
	if err != nil {
		core.Log.Error("Import failed", "error", err)
		core.Close()
		os.Exit(1)
	}
	fmt.Printf("Imported %d groups, %d collections, %d coins from %d files\n", sum.Groups, sum.Collections, sum.Coins, sum.Files)
}
