// Command bulkdata imports or exports the product catalog from the command
// line, sharing the exact pipeline the HTTP bulk endpoints use.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/ecomcore/storefront/config"
	"github.com/ecomcore/storefront/internal/app"
	"github.com/ecomcore/storefront/internal/bulk"
)

var (
	conffile = flag.String("c", "/etc/storefront.yml", "config file")
	action   = flag.String("action", "export", "import or export")
	file     = flag.String("file", "", "csv file to read or write")
	format   = flag.String("format", "csv", "export format: csv or xlsx")
)

func main() {
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "bulkdata: -file is required")
		os.Exit(2)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	ctx := context.Background()
	switch *action {
	case "import":
		runImport(ctx, application, *file)
	case "export":
		runExport(ctx, application, *file, *format)
	default:
		fmt.Fprintf(os.Stderr, "bulkdata: unknown action %q\n", *action)
		os.Exit(2)
	}
}

func runImport(ctx context.Context, application *app.Application, path string) {
	f, err := os.Open(path)
	if err != nil {
		zap.S().Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var rows []bulk.ProductRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		zap.S().Fatalf("parse %s: %v", path, err)
	}

	result, err := application.Bulk().Import(ctx, rows)
	if err != nil {
		zap.S().Fatalf("import failed: %v", err)
	}
	fmt.Printf("imported %d rows, skipped %d\n", result.Created, result.Skipped)
	for _, w := range result.Warnings {
		fmt.Println("  " + w)
	}
}

func runExport(ctx context.Context, application *app.Application, path, format string) {
	f, err := os.Create(path)
	if err != nil {
		zap.S().Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if format == "xlsx" {
		err = application.Bulk().ExportXLSX(ctx, f)
	} else {
		err = application.Bulk().ExportCSV(ctx, f)
	}
	if err != nil {
		zap.S().Fatalf("export failed: %v", err)
	}
	fmt.Printf("exported catalog to %s\n", path)
}
