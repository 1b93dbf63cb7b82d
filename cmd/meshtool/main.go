// meshtool is a CLI utility for inspecting and editing meshkit scene documents.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
)

// errUsage makes main print the command usage.
var errUsage = errors.New("invalid usage")

type command struct {
	name  string
	usage string
	run   func(cfg *config.Config, fs *flag.FlagSet) error
	flags func(fs *flag.FlagSet)
}

var commands = []command{
	{name: "info", usage: "info <scene.yaml>", run: cmdInfo},
	{name: "roundtrip", usage: "roundtrip <scene.yaml> [output.yaml]", run: cmdRoundTrip},
	{name: "delete-verts", usage: "delete-verts -mesh <name> <scene.yaml> <index>...", run: cmdDeleteVerts, flags: deleteFlags},
	{name: "move", usage: "move -mesh <name> -d x,y,z <scene.yaml> <index>...", run: cmdMove, flags: moveFlags},
	{name: "eval", usage: "eval -mesh <name> <scene.yaml>", run: cmdEval, flags: evalFlags},
	{name: "batch", usage: "batch <input-dir> <output-dir>", run: cmdBatch},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage()
		return
	}

	if err := run(name, os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	for _, c := range commands {
		if c.name != name {
			continue
		}
		fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
		var f config.Flags
		f.Register(fs)
		if c.flags != nil {
			c.flags(fs)
		}
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}

		cfg, err := config.Load(&f)
		if err != nil {
			return err
		}
		opts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
		if cfg.Logging.LogFile != "" {
			opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
		}
		if err := logger.InitWithOptions(opts); err != nil {
			return err
		}
		defer logger.Sync()

		return c.run(cfg, fs)
	}
	return fmt.Errorf("%w: unknown command %s", errUsage, name)
}

func printUsage() {
	fmt.Println(`meshtool - mesh scene document utility

Usage:
  meshtool <command> [options]

Commands:`)
	for _, c := range commands {
		fmt.Printf("  %s\n", c.usage)
	}
	fmt.Println(`
Common options:
  -config <file>    Config file (default ./meshkit.yaml)
  -shape-key <n>    Edit positions of shape key n (1-based)
  -no-remap         Leave hook and vertex parent indices untouched
  -debug            Enable debug logging

Examples:
  meshtool info scene.yaml
  meshtool delete-verts -mesh Cube scene.yaml 2 3
  meshtool move -mesh Cube -shape-key 1 -d 0,0,0.5 scene.yaml 0 1
  meshtool batch ./in ./out`)
}
