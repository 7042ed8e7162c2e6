package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/tahlil-one/tahlil/internal/pkg/dbexport"
	"github.com/tahlil-one/tahlil/internal/pkg/s3backup"
)

type exportCmd struct {
	dir string
	s3  bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "dump the database as JSON files" }
func (*exportCmd) Usage() string {
	return `tahlilctl export -dir <dir> [-s3]

  Writes one <table>.json file per table into dir. With -s3 the files are also
  uploaded to the configured bucket under S3_EXPORT_PREFIX.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "Target directory.")
	f.BoolVar(&c.s3, "s3", false, "Upload the files to S3 after writing them.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dir == "" {
		fmt.Fprintln(os.Stderr, "-dir is required")
		f.Usage()
		return subcommands.ExitUsageError
	}

	db := openDB()
	paths, err := dbexport.Export(ctx, dbexport.NewGormStore(db), c.dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, p := range paths {
		fmt.Println(p)
	}

	if !c.s3 {
		return subcommands.ExitSuccess
	}
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
	keys, err := client.UploadDir(ctx, c.dir, cfg.ExportFolder(time.Now()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "upload failed: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, k := range keys {
		fmt.Printf("s3://%s/%s\n", cfg.GetBucketName(), k)
	}
	return subcommands.ExitSuccess
}
