package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "ply2colmap",
		Usage: "Converts PLY point clouds to COLMAP points3D.txt",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log output format, text or json",
				Value:   "text",
				EnvVars: []string{"PLY2COLMAP_LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogger(c)
		},
		DefaultCommand: "convert",
		Commands: []*cli.Command{
			convertCommand(),
			inspectCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
