// rigkit is a CLI for compiling loosely-structured asset descriptions into
// renderer-ready skeletal data: joint hierarchies with bind matrices,
// fixed-width influence buffers, and merged animation tracks.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/rigkit/internal/compile"
	"github.com/Faultbox/rigkit/internal/config"
	"github.com/Faultbox/rigkit/internal/logger"
	"github.com/Faultbox/rigkit/internal/rigfile"
	"github.com/Faultbox/rigkit/pkg/rig"
	"github.com/Faultbox/rigkit/pkg/scene"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "info":
		cmdInfo(args[1:])
	case "compile":
		cmdCompile(args[1:], cfg)
	case "dump":
		cmdDump(args[1:], cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rigkit - skeletal asset compiler

Usage:
  rigkit [flags] <command> <rig.yaml>

Commands:
  info <rig.yaml>      Show what the rig description contains
  compile <rig.yaml>   Compile and print the armature and track summary
  dump <rig.yaml>      Compile and dump the full result structures

Flags:
  -config <path>       Config file (default: ./rigkit.yaml if present)
  -debug               Enable debug logging
  -log-file <path>     Write logs to a rotated file`)
}

func loadRequest(args []string) *compile.Request {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	req, err := rigfile.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return req
}

func runCompile(args []string, cfg *config.Config) *compile.Model {
	req := loadRequest(args)
	if req.UnitQuatTolerance == 0 {
		req.UnitQuatTolerance = cfg.Compile.UnitQuatTolerance
	}
	model, err := compile.Compile(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return model
}

func cmdInfo(args []string) {
	req := loadRequest(args)

	nodes := 0
	req.Root.Walk(func(*scene.Node) { nodes++ })

	weights := 0
	for _, m := range req.Meshes {
		weights += len(m.Weights)
	}

	fmt.Printf("Asset:   %s\n", req.Name)
	fmt.Printf("Nodes:   %d\n", nodes)
	fmt.Printf("Meshes:  %d (%d weight assignments)\n", len(req.Meshes), weights)
	fmt.Printf("Clips:   %d\n", len(req.Clips))
	for _, c := range req.Clips {
		fmt.Printf("  %-20s %6.3fs  %d channels\n", c.Name, c.Duration, len(c.Channels))
	}
}

func cmdCompile(args []string, cfg *config.Config) {
	model := runCompile(args, cfg)

	fmt.Printf("Asset: %s\n", model.Name)
	fmt.Printf("Joints: %d\n", model.Armature.Len())
	model.Armature.Walk(func(j rig.Joint) {
		parent := "-"
		if j.Parent != rig.NoParent {
			parent = fmt.Sprintf("%d", j.Parent)
		}
		fmt.Printf("  [%3d] %-24s parent=%s children=%d\n",
			j.ID, j.Name, parent, len(j.Children))
	})

	for i, skin := range model.Skins {
		fmt.Printf("Mesh %d: %d vertices, %d influence slots\n",
			i, skin.VertexCount, len(skin.Indices))
	}

	for _, c := range model.Clips {
		fmt.Printf("Clip %q (%.3fs): %d tracks\n", c.Name, c.Duration, len(c.Tracks))
		for _, tr := range c.Tracks {
			fmt.Printf("  %-12s %d keys\n", tr.Target, tr.Len())
		}
	}
}

func cmdDump(args []string, cfg *config.Config) {
	model := runCompile(args, cfg)
	spew.Dump(model)
}
