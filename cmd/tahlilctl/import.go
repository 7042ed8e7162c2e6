package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tahlil-one/tahlil/internal/pkg/dbexport"
	"github.com/tahlil-one/tahlil/internal/pkg/s3backup"
)

type importCmd struct {
	dir      string
	replace  bool
	s3Folder string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load JSON files written by export" }
func (*importCmd) Usage() string {
	return `tahlilctl import -dir <dir> [-replace] [-s3 <folder>]

  Upserts the rows of every <table>.json found in dir. With -replace each
  imported table is emptied first. With -s3 the files of that export folder
  are downloaded into dir before importing.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Directory holding the JSON files.")
	f.BoolVar(&c.replace, "replace", false, "Empty each table before importing it.")
	f.StringVar(&c.s3Folder, "s3", "", "S3 export folder to download first, e.g. exports/20240315T060507Z.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dir == "" {
		fmt.Fprintln(os.Stderr, "-dir is required")
		f.Usage()
		return subcommands.ExitUsageError
	}

	db := openDB()

	if c.s3Folder != "" {
		cfg, err := s3backup.LoadConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		client, err := s3backup.NewClient(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if _, err := client.DownloadFolder(ctx, c.s3Folder, c.dir, dbexport.FileNames()); err != nil {
			fmt.Fprintf(os.Stderr, "download failed: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	counts, err := dbexport.Import(ctx, dbexport.NewGormStore(db), c.dir, c.replace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, t := range dbexport.Tables {
		if n, ok := counts[t.Name]; ok {
			fmt.Printf("%-18s %d\n", t.Name, n)
		}
	}
	return subcommands.ExitSuccess
}
