package main

import (
	"github.com/mamaar/drupalrefactor/internal/cli"
	"github.com/mamaar/drupalrefactor/internal/cli/commands"
)

func main() {
	app := cli.NewApp()
	app.Initialize()

	runner := cli.NewRunner()
	runner.RegisterCommand("detect", commands.DetectCommand)
	runner.RegisterCommand("inject", commands.InjectCommand)
	runner.RegisterCommand("services", commands.ServicesCommand)
	runner.RegisterCommand("skeleton", commands.SkeletonCommand)
	runner.RegisterCommand("version", commands.VersionCommand)
	runner.RegisterCommand("help", commands.HelpCommand)

	app.Run(runner)
}
