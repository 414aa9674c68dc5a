package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spdl/internal/services"
	"github.com/desertthunder/spdl/internal/shared"
	"github.com/desertthunder/spdl/internal/tasks"
	"github.com/desertthunder/spdl/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for the CLI and provides the command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	painter    ui.Painter
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	LogLevel   log.Level
	Output     io.Writer
	Painter    ui.Painter
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.LogLevel != 0 {
		shared.SetLogLevel(opts.Logger, opts.LogLevel)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Painter == nil {
		opts.Painter = ui.DefaultPalette()
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		painter:    opts.Painter,
	}
}

// Download authenticates against Spotify and downloads every track of the playlist into the working directory.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	_, err := r.download(ctx, cmd.String("client-id"), cmd.String("client-secret"), cmd.String("playlist-id"))
	return err
}

func (r *Runner) download(ctx context.Context, clientID, clientSecret, playlistID string) (*tasks.RunResult, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	logger := shared.NewRunLogger(r.logger)
	logger.Info("starting download", "playlist", playlistID)

	transport := services.NewHTTPTransport(r.httpClient, services.TransportOpts{
		UserAgent:         r.config.HTTP.UserAgent,
		RequestsPerSecond: r.config.HTTP.RequestsPerSecond,
	})

	auth, err := services.NewSpotifyAuth(clientID, clientSecret, r.config.Spotify.TokenURL, transport.Client())
	if err != nil {
		return nil, err
	}

	creds, err := auth.Token(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("authenticated", "token_type", creds.TokenType, "expires_in", creds.ExpiresIn)

	engine := tasks.NewPlaylistEngine(tasks.EngineOpts{
		Catalog:   services.NewSpotifyService(r.config.Spotify.APIURL, transport),
		Searcher:  services.NewInvidiousService(r.config.Search.URL, transport),
		Converter: services.NewCobaltService(r.config.Conversion.URL, transport),
		Streamer:  transport,
		Config:    r.config,
		Output:    r.output,
		Painter:   r.painter,
		Logger:    logger,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Run(ctx, progressCh, creds.AccessToken, playlistID)
	close(progressCh)
	wg.Wait()

	if err != nil {
		if result != nil {
			fmt.Fprintln(r.output, r.painter.Err(fmt.Sprintf("stopped after %d of %d tracks", result.Offset, result.Total)))
		}
		return result, err
	}

	logger.Info("download complete",
		"tracks", result.Offset, "downloaded", result.Downloaded, "skipped", result.Skipped, "pages", result.Pages)
	return result, nil
}
