// hulltool is a CLI utility for inspecting and triangulating BSP collision hulls.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/hullmesh/internal/config"
	"github.com/Faultbox/hullmesh/internal/hullmesh"
	"github.com/Faultbox/hullmesh/internal/logger"
	"github.com/Faultbox/hullmesh/pkg/bsp"
	"github.com/Faultbox/hullmesh/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "mesh":
		err = cmdMesh(args)
	case "box":
		err = cmdBox(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hulltool - BSP collision hull utility

Usage:
  hulltool <command> [options]

Commands:
  info <file.bsp>              Show lump sizes and per-hull node counts
  mesh [options] <file.bsp>    Triangulate a model's collision hull
  box [options]                Triangulate an axis-aligned box hull

Mesh options:
  -model N     Model index (0 = world)
  -hull N      Collision hull 0-2
  -all         Triangulate every model
  -strict      Fail when a node portal is clipped away
  -validate    Check portal lists after partitioning
  -o FILE      Write the mesh as OBJ
  -config FILE Config file for defaults
  -v           Debug logging

Examples:
  hulltool info maps/e1m1.bsp
  hulltool mesh -hull 1 -o e1m1_hull1.obj maps/e1m1.bsp
  hulltool box -size 32,32,56 -o player.obj`)
}

// setupLogging routes library logs to stderr.
func setupLogging(verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.Init(level, "")
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: hulltool info <file.bsp>")
	}

	f, err := bsp.ParseFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Version:   %d\n", f.Version)
	fmt.Printf("Planes:    %d\n", len(f.Planes))
	fmt.Printf("Nodes:     %d\n", len(f.Nodes))
	fmt.Printf("Leafs:     %d\n", len(f.Leafs))
	fmt.Printf("ClipNodes: %d\n", len(f.ClipNodes))
	fmt.Printf("Models:    %d\n", len(f.Models))
	fmt.Println()
	fmt.Println("World hulls:")

	for i := 0; i < bsp.MaxHulls; i++ {
		h, err := f.Hull(0, i)
		if err != nil {
			fmt.Printf("  hull %d  error: %v\n", i, err)
			continue
		}
		fmt.Printf("  hull %d  %6d nodes  clip box %v .. %v\n", i, h.NodeCount(), h.ClipMins, h.ClipMaxs)
	}
	return nil
}

func cmdMesh(args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file for defaults")
	model := fs.Int("model", -1, "Model index")
	hull := fs.Int("hull", -1, "Collision hull 0-2")
	all := fs.Bool("all", false, "Triangulate every model")
	strict := fs.Bool("strict", false, "Fail when a node portal is clipped away")
	validate := fs.Bool("validate", false, "Check portal lists after partitioning")
	out := fs.String("o", "", "Write the mesh as OBJ")
	verbose := fs.Bool("v", false, "Debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: hulltool mesh [options] <file.bsp>")
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}
	if *model >= 0 {
		cfg.Hull.Model = *model
	}
	if *hull >= 0 {
		cfg.Hull.Index = *hull
	}
	cfg.Hull.Strict = cfg.Hull.Strict || *strict
	cfg.Hull.Validate = cfg.Hull.Validate || *validate
	if *out != "" {
		cfg.Export.OBJPath = *out
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(*verbose); err != nil {
		return err
	}

	f, err := bsp.ParseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := hullmesh.Options{
		Padding:  cfg.Hull.Padding,
		Strict:   cfg.Hull.Strict,
		Validate: cfg.Hull.Validate,
	}

	var mesh *hullmesh.Mesh
	if *all {
		meshes, err := hullmesh.BuildModels(context.Background(), f, cfg.Hull.Index,
			hullmesh.BuildOptions{Options: opts, Workers: cfg.Hull.Workers})
		if err != nil {
			return err
		}
		mesh, _ = hullmesh.Concat(meshes)
		fmt.Printf("Models:    %d\n", len(meshes))
	} else {
		h, err := f.Hull(cfg.Hull.Model, cfg.Hull.Index)
		if err != nil {
			return err
		}
		mins, maxs := f.Models[cfg.Hull.Model].HullBounds(h)
		if mesh, err = hullmesh.TriangulateHull(h, mins, maxs, opts); err != nil {
			return fmt.Errorf("model %d hull %d: %w", cfg.Hull.Model, cfg.Hull.Index, err)
		}
		fmt.Printf("Model:     %d\n", cfg.Hull.Model)
	}

	fmt.Printf("Hull:      %d\n", cfg.Hull.Index)
	printMesh(mesh)

	return export(cfg.Export.OBJPath, mesh)
}

func cmdBox(args []string) error {
	fs := flag.NewFlagSet("box", flag.ExitOnError)
	sizeArg := fs.String("size", "32,32,56", "Box size X,Y,Z")
	room := fs.Bool("room", false, "Empty inside, solid outside")
	out := fs.String("o", "", "Write the mesh as OBJ")
	verbose := fs.Bool("v", false, "Debug logging")
	fs.Parse(args)

	size, err := parseSize(*sizeArg)
	if err != nil {
		return err
	}
	if err := setupLogging(*verbose); err != nil {
		return err
	}

	maxs := size.Scale(0.5)
	mins := maxs.Negate()
	inside, outside := bsp.ContentsSolid, bsp.ContentsEmpty
	if *room {
		inside, outside = outside, inside
	}

	mesh, err := hullmesh.TriangulateHull(bsp.NewBoxHull(mins, maxs, inside, outside), mins, maxs, hullmesh.Options{Validate: true})
	if err != nil {
		return err
	}

	fmt.Printf("Box:       %v .. %v\n", mins, maxs)
	printMesh(mesh)

	return export(*out, mesh)
}

// parseSize parses "X,Y,Z" into a vector of positive extents.
func parseSize(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("size %q: want X,Y,Z", s)
	}
	var v math.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("size %q: %w", s, err)
		}
		if f <= 0 {
			return math.Vec3{}, fmt.Errorf("size %q: extents must be positive", s)
		}
		v = v.With(i, float32(f))
	}
	return v, nil
}

func printMesh(m *hullmesh.Mesh) {
	fmt.Printf("Faces:     %d\n", len(m.Faces))
	fmt.Printf("Vertices:  %d\n", len(m.Vertices))
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Portals:   %d (%d split, %d clipped away)\n",
		m.Stats.Portals, m.Stats.SplitPortals, m.Stats.ClippedPortals)
}

func export(path string, m *hullmesh.Mesh) error {
	if path == "" {
		return nil
	}
	if err := hullmesh.WriteOBJFile(path, m); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
