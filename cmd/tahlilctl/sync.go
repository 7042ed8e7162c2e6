package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/cache"
	"github.com/tahlil-one/tahlil/internal/pkg/sheets"
)

type syncCmd struct {
	rangeSpec string
	xlsx      string
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "import the daily analysis sheet into the database" }
func (*syncCmd) Usage() string {
	return `tahlilctl sync [-range <A1 range>] [-xlsx <file>]

  Reads the configured Google Sheet, or a local workbook with -xlsx, and upserts
  every valid row. The sync result is printed as JSON.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rangeSpec, "range", "", "A1 range to read. Defaults to GOOGLE_SHEET_RANGE, or the first sheet with -xlsx.")
	f.StringVar(&c.xlsx, "xlsx", "", "Read rows from this .xlsx file instead of Google Sheets.")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := openDB()

	var source sheets.RowSource
	rangeSpec := c.rangeSpec
	if c.xlsx != "" {
		source = sheets.NewXLSXSource(c.xlsx)
	} else {
		source = sheets.NewGoogleSheetsSource(sheets.ConfigFromEnv())
		if rangeSpec == "" {
			rangeSpec = sheets.RangeFromEnv()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, sheets.SyncTimeoutFromEnv())
	defer cancel()

	pipeline := sheets.NewPipeline(source, repository.NewDailyAnalysisRepository(db), cache.NewSyncStore(cache.GetClient()))
	result, err := pipeline.Sync(ctx, rangeSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
		if result == nil {
			return subcommands.ExitFailure
		}
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
