package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ecomcore/storefront/config"
	"github.com/ecomcore/storefront/internal/adminapi"
	"github.com/ecomcore/storefront/internal/app"
	"github.com/ecomcore/storefront/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	x        = flag.Bool("x", false, "debug mode")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema")
	conffile = flag.String("c", "/etc/storefront.yml", "config file")
)

func printHelp() {
	if *h {
		ustr := fmt.Sprintf("storefront usage: storefront -h\nOptions:")
		fmt.Fprintf(os.Stderr, ustr)
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	cfg := config.LoadConfig(*conffile)
	if *x {
		cfg.System.Debug = true
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	server := webserver.Init(cfg, application.DB())
	adminapi.Init(&adminapi.Services{
		Catalog: application.Catalog(),
		Shop:    application.Shop(),
		Auth:    application.Auth(),
		Blog:    application.Blog(),
		Bulk:    application.Bulk(),
		Faq:     application.Faq(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	application.StartBackgroundJobs(ctx)

	go func() {
		<-ctx.Done()
		_ = server.Echo().Close()
	}()

	if err := server.Listen(); err != nil {
		zap.L().Error("web server stopped", zap.Error(err))
	}
}
