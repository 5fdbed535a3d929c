package main

import (
	"fmt"
	"os"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/cli"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs pre-parses --config before cobra runs, since the config
// has to exist before commands are built.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
