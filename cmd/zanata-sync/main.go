package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/app"
	"github.com/tildaslashalef/zanata-sync/internal/commands"
	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
	Author     = "unknown"
	Email      = "unknown"
)

func main() {
	// -v belongs to the --version option of the sync commands
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "print-version",
		Usage: "print the version",
	}

	cliApp := &cli.App{
		Name:  "zanata-sync",
		Usage: "Sync gettext translation files with a Zanata server",
		Description: "zanata-sync pushes source templates and translations from a local folder " +
			"to a Zanata project version and pulls translated files back.\n\n" +
			"Options can be preset per project in config/zanata.yml.",
		Version: fmt.Sprintf("%s (%s)", Version, CommitHash),
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Authors: []*cli.Author{
			{
				Name:  Author,
				Email: Email,
			},
		},
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		ExitErrHandler: func(*cli.Context, error) {},
		Commands:       commands.All(),
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(zerrors.ExitCode(err))
	}
}
