package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tgshop/internal/app"
	"tgshop/internal/config"
	"tgshop/internal/dbtool"
	"tgshop/internal/infra/db"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const usage = `Usage: dbtool <command> [flags]

Commands:
  migrate                                 create or update tables
  seed                                    insert demo products into an empty catalog
  tables                                  list tables with row counts
  count <table>                           count rows
  tail <table> [-n N]                     show the last N rows (default 10)
  export <table> -format csv|json [-out file]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "dbtool:", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// CLIでは警告以上だけ出す
	cfg.LogLevel = "warn"
	log, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	gdb, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	switch cmd {
	case "migrate":
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		fmt.Println("migrated:", strings.Join(dbtool.KnownTables, ", "))
		return nil
	case "seed":
		return seed(ctx, gdb, cfg, log)
	case "tables":
		return tables(ctx, gdb)
	case "count":
		return count(ctx, gdb, args)
	case "tail":
		return tail(ctx, gdb, args)
	case "export":
		return export(ctx, gdb, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func seed(ctx context.Context, gdb *gorm.DB, cfg config.Config, log *zap.Logger) error {
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	n, err := app.NewUsecases(gdb, cfg).Catalog.SeedDemoProducts(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("catalog is not empty, nothing seeded")
		return nil
	}
	log.Debug("seeded", zap.Int("count", n))
	fmt.Printf("seeded %d products\n", n)
	return nil
}

func tables(ctx context.Context, gdb *gorm.DB) error {
	infos, err := dbtool.Tables(ctx, gdb)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if !info.Exists {
			fmt.Printf("%-12s (missing)\n", info.Name)
			continue
		}
		fmt.Printf("%-12s %d\n", info.Name, info.Rows)
	}
	return nil
}

// 位置引数のテーブル名のあとにflagを置けるようにする
func tableArg(fs *flag.FlagSet, args []string) (string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", fmt.Errorf("%s: table name is required", fs.Name())
	}
	if err := fs.Parse(args[1:]); err != nil {
		return "", err
	}
	return args[0], nil
}

func count(ctx context.Context, gdb *gorm.DB, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	table, err := tableArg(fs, args)
	if err != nil {
		return err
	}
	n, err := dbtool.Count(ctx, gdb, table)
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func tail(ctx context.Context, gdb *gorm.DB, args []string) error {
	fs := flag.NewFlagSet("tail", flag.ContinueOnError)
	n := fs.Int("n", 10, "number of rows")
	table, err := tableArg(fs, args)
	if err != nil {
		return err
	}

	res, err := dbtool.Tail(ctx, gdb, table, *n)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = dbtool.Cell(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	return nil
}

func export(ctx context.Context, gdb *gorm.DB, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", dbtool.FormatCSV, "csv or json")
	out := fs.String("out", "", "output file (default stdout)")
	table, err := tableArg(fs, args)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, err := dbtool.Export(ctx, gdb, table, *format, w)
	if err != nil {
		return err
	}
	if *out != "" {
		fmt.Printf("exported %d rows to %s\n", n, *out)
	}
	return nil
}
