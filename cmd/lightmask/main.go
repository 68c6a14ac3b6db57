package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/yegorkir/lightmask/internal/lighting"
	"github.com/yegorkir/lightmask/internal/overlay"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "--help":
		printUsage()
		return
	}

	err := overlay.Run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case lighting.IsInvariant(err):
		fmt.Fprintf(os.Stderr, "error: lighting data invariant violated: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`lightmask — darken map images by per-cell lighting

Usage:
  lightmask -i <lighting.json> [options] <image>[=<z>] ...

Targets:
  map.png          use the only grid, or fan out over every z-level
  map.png=3        use the grid for z-level 3
  map_{z}.png      expand once per z-level, replacing {z}

Outputs are written next to each source as lighting_<name>.png.
Run "lightmask -h" for all options.
`)
}
