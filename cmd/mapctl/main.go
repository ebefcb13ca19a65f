// Command mapctl inspects and edits text quest map files. It reads the same
// .json and .hcl files the server loads from its maps directory.
//
//	mapctl render maps/meadow.json
//	mapctl render --x 10 --y 4 --width 20 --height 8 maps/harbor.hcl
//	mapctl info maps/*.json
//	mapctl validate maps/*
//	mapctl paint --x 12 --y 0 --terrain road --out maps/meadow.json maps/meadow.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/textquest/game/maps"
	"github.com/wricardo/mcp-training/textquest/game/terrain"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mapctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "mapctl",
		Usage:     "inspect and edit text quest map files",
		Writer:    w,
		ErrWriter: w,
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "print a map, or a window of it",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "x", Usage: "left column of the window"},
					&cli.IntFlag{Name: "y", Usage: "top row of the window"},
					&cli.IntFlag{Name: "width", Usage: "window width (default: map width)"},
					&cli.IntFlag{Name: "height", Usage: "window height (default: map height)"},
				},
				Action: renderAction,
			},
			{
				Name:      "info",
				Usage:     "summarise map files",
				ArgsUsage: "FILE...",
				Action:    infoAction,
			},
			{
				Name:      "validate",
				Usage:     "check that map files can start a session",
				ArgsUsage: "FILE...",
				Action:    validateAction,
			},
			{
				Name:      "paint",
				Usage:     "set one cell, growing the map if needed, and write the result as JSON",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "x", Required: true},
					&cli.IntFlag{Name: "y", Required: true},
					&cli.StringFlag{Name: "terrain", Required: true, Usage: "terrain name or map character"},
					&cli.StringFlag{Name: "out", Usage: "output file (default: FILE with a .json extension)"},
				},
				Action: paintAction,
			},
		},
	}
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("render takes exactly one file")
	}
	m, err := maps.LoadFile(cmd.Args().First())
	if err != nil {
		return err
	}

	width, height := m.Width(), m.Height()
	if cmd.IsSet("width") {
		width = cmd.Int("width")
	}
	if cmd.IsSet("height") {
		height = cmd.Int("height")
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("width and height must be positive")
	}

	if err := m.RenderTo(cmd.Root().Writer, cmd.Int("x"), cmd.Int("y"), width, height); err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer)
	return nil
}

func infoAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("info needs at least one file")
	}
	w := cmd.Root().Writer

	for i, path := range cmd.Args().Slice() {
		m, err := maps.LoadFile(path)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s\n", path)
		fmt.Fprintf(w, "  Name:  %s\n", m.Name())
		if desc, ok := m.Meta(maps.DescriptionMeta); ok {
			fmt.Fprintf(w, "  About: %s\n", desc)
		}
		fmt.Fprintf(w, "  Size:  %dx%d\n", m.Width(), m.Height())
		fmt.Fprintf(w, "  Start: %s\n", m.StartingCoordinate())

		var counts []string
		for _, t := range terrain.Types() {
			if n := m.Count(t); n > 0 {
				counts = append(counts, fmt.Sprintf("%s=%d", t, n))
			}
		}
		fmt.Fprintf(w, "  Cells: %s\n", strings.Join(counts, " "))
	}
	return nil
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("validate needs at least one file")
	}
	w := cmd.Root().Writer

	failed := 0
	for _, path := range cmd.Args().Slice() {
		if !maps.IsMapFile(path) {
			continue
		}
		m, err := maps.LoadFile(path)
		if err == nil {
			err = maps.ValidateMap(m)
		}
		if err != nil {
			failed++
			fmt.Fprintf(w, "✗ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(w, "✓ %s (%dx%d)\n", path, m.Width(), m.Height())
	}

	if failed > 0 {
		return fmt.Errorf("%d invalid map file(s)", failed)
	}
	return nil
}

func paintAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("paint takes exactly one file")
	}
	path := cmd.Args().First()

	m, err := maps.LoadFile(path)
	if err != nil {
		return err
	}
	t, err := terrain.ParseName(cmd.String("terrain"))
	if err != nil {
		return err
	}

	x, y := cmd.Int("x"), cmd.Int("y")
	oldW, oldH := m.Width(), m.Height()
	changed, err := m.ModifyAt(x, y, t)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	w := cmd.Root().Writer
	switch {
	case !changed:
		fmt.Fprintf(w, "(%d,%d) is already %s\n", x, y, t)
	case m.Width() != oldW || m.Height() != oldH:
		fmt.Fprintf(w, "(%d,%d) = %s; grew %dx%d -> %dx%d\n", x, y, t, oldW, oldH, m.Width(), m.Height())
	default:
		fmt.Fprintf(w, "(%d,%d) = %s\n", x, y, t)
	}
	fmt.Fprintf(w, "wrote %s\n", out)
	return nil
}
