package main

import (
	"github.com/alecthomas/kong"
)

type Globals struct {
	Config   string `env:"CONFIG_PATH" default:"config/config.yaml" help:"Path to the YAML config file."`
	LogLevel string `env:"LOG_LEVEL"   help:"Log level, overrides logging.level from the config."`
}

type CLI struct {
	Globals
	Serve    ServeCmd    `cmd:"" default:"1" help:"Runs the registry API, block watcher and background workers."`
	Networks NetworksCmd `cmd:"" help:"Prints the network descriptors the registry would start with."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("network-registry"),
		kong.Description("Tracks supported EVM networks and their latest chain heads."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
