package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"github.com/tahlil-one/tahlil/internal/pkg/database"
	"github.com/tahlil-one/tahlil/internal/pkg/env"
)

// commands are the subcommands of tahlilctl.
var commands = []subcommands.Command{
	&syncCmd{},
	&exportCmd{},
	&importCmd{},
	&grantCmd{},
}

// openDB connects with the settings of the .env file. Replaced in tests.
var openDB = func() *gorm.DB {
	env.SetupEnvFile()
	database.SetupDatabase()
	return database.GetDB()
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
