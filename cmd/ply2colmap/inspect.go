package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/recolude/ply2colmap/convert"
	"github.com/recolude/ply2colmap/ply"
	"github.com/urfave/cli/v2"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the header of a PLY file and how its vertices would be decoded",
		ArgsUsage: "<input.ply>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("inspect takes exactly one PLY file")
			}
			in, err := convert.OpenInput(c.Args().First())
			if err != nil {
				return err
			}
			defer in.Close()

			header, err := ply.ParseHeader(in.Reader)
			if err != nil {
				return err
			}
			return printHeader(c.App.Writer, header, in.Compression)
		},
	}
}

func printHeader(w io.Writer, h *ply.Header, compression convert.Compression) error {
	fmt.Fprintf(w, "format:      %s %s\n", h.Format, h.Version)
	fmt.Fprintf(w, "compression: %s\n", compression)
	fmt.Fprintf(w, "data offset: %d\n", h.DataOffset)
	for _, comment := range h.Comments {
		fmt.Fprintf(w, "comment:     %s\n", comment)
	}
	for _, e := range h.Elements {
		fmt.Fprintf(w, "element %s: %s\n", e.Name, humanize.Comma(int64(e.Count)))
		for _, p := range e.Properties {
			if p.IsList {
				fmt.Fprintf(w, "  list %s %s %s\n", p.CountType, p.ItemType, p.Name)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", p.Type, p.Name)
		}
	}

	fields, err := ply.LocateFields(h.Vertex().Properties)
	if err != nil {
		return err
	}
	pos := fields.Position
	fmt.Fprintf(w, "position:    %s %s %s\n", fields.Name(pos[0].Index), fields.Name(pos[1].Index), fields.Name(pos[2].Index))
	if fields.HasColor {
		col := fields.Color
		fmt.Fprintf(w, "color:       %s %s %s\n", fields.Name(col[0].Index), fields.Name(col[1].Index), fields.Name(col[2].Index))
	} else {
		fmt.Fprintf(w, "color:       none, defaults to %v\n", ply.DefaultColor)
	}
	_, err = fmt.Fprintf(w, "stride:      %d bytes\n", fields.Stride)
	return err
}
