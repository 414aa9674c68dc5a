package main

import (
	"context"
	"os"

	"github.com/desertthunder/spdl/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newCommand(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spdl",
		Usage:   "Download every track of a Spotify playlist as audio",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "client-id",
				Usage:    "Spotify application client ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "client-secret",
				Usage:    "Spotify application client secret",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "playlist-id",
				Aliases:  []string{"p"},
				Usage:    "Spotify playlist ID",
				Required: true,
			},
		},
		Action: r.Download,
	}
}
