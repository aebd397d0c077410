package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/app"
	"github.com/tildaslashalef/zanata-sync/internal/config"
	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/locale"
	"github.com/tildaslashalef/zanata-sync/internal/utils"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// Flag names shared by several commands
const (
	flagUsername          = "username"
	flagURL               = "url"
	flagAPIKey            = "api-key"
	flagProjectID         = "project-id"
	flagVersion           = "version"
	flagTranslationFolder = "translation-folder"
	flagLocales           = "locales"
	flagExcludeFiles      = "exclude-files"
	flagUpdateType        = "update-type"
	flagTryCount          = "try-count"
	flagTmpDir            = "tmp-dir"
	flagZanataLocaleRule  = "zanata-locale-rule"
	flagLocalLocaleRule   = "local-locale-rule"
	flagResolveIfExists   = "resolve-if-exists"
	flagUpdateIfNew       = "update-if-new"
)

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagUsername,
			Aliases: []string{"U"},
			Usage:   "The Zanata user to use",
		},
		&cli.StringFlag{
			Name:    flagURL,
			Aliases: []string{"u"},
			Usage:   "The URL to the Zanata server",
		},
		&cli.StringFlag{
			Name:    flagAPIKey,
			Aliases: []string{"key", "api", "K"},
			Usage:   "The API key for the Zanata server (defaults to ZANATA_API_KEY or the stored key)",
		},
	}
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagProjectID,
		Aliases: []string{"p"},
		Usage:   "The project id to use",
	}
}

func versionFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:    flagVersion,
		Aliases: []string{"v"},
		Usage:   usage + " (\"current\" reads it from package.json)",
	}
}

func folderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagTranslationFolder,
			Aliases: []string{"t"},
			Usage:   "The folder where the translations are (default: ./translations)",
		},
		&cli.StringSliceFlag{
			Name:    flagLocales,
			Aliases: []string{"l"},
			Usage:   "Locales to use (default: en)",
		},
		&cli.StringFlag{
			Name:    flagUpdateType,
			Aliases: []string{"ut"},
			Usage:   "Which files to transfer: source, trans or both",
		},
		&cli.StringFlag{
			Name:  flagTmpDir,
			Usage: "Staging folder, removed after every run (default: ./tmp/.zanata)",
		},
		&cli.StringFlag{
			Name:  flagZanataLocaleRule,
			Usage: "How local locale names are sent to Zanata: default, identity, lower or posix",
		},
		&cli.StringFlag{
			Name:  flagLocalLocaleRule,
			Usage: "How Zanata locale names are stored locally: default, identity, lower or posix",
		},
	}
}

func pushFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    flagExcludeFiles,
			Aliases: []string{"e"},
			Usage:   "Source files to ignore (default: excluded.pot)",
		},
		&cli.IntFlag{
			Name:    flagTryCount,
			Aliases: []string{"tc"},
			Usage:   "How often to try to push (default: 4)",
		},
	}
}

func withFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

// flagOptions collects the options given on the command line. Unset flags
// stay zero so lower layers can fill them.
func flagOptions(c *cli.Context) config.ProjectOptions {
	opts := config.ProjectOptions{
		URL:               c.String(flagURL),
		Username:          c.String(flagUsername),
		ProjectID:         c.String(flagProjectID),
		Version:           c.String(flagVersion),
		Locales:           c.StringSlice(flagLocales),
		ExcludeFiles:      c.StringSlice(flagExcludeFiles),
		UpdateType:        c.String(flagUpdateType),
		TranslationFolder: c.String(flagTranslationFolder),
		TmpDir:            c.String(flagTmpDir),
		TryCount:          c.Int(flagTryCount),
		ZanataLocaleRule:  c.String(flagZanataLocaleRule),
		LocalLocaleRule:   c.String(flagLocalLocaleRule),
	}
	if c.IsSet(flagResolveIfExists) {
		opts.ResolveIfExists = config.BoolPtr(c.Bool(flagResolveIfExists))
	}
	if c.IsSet(flagUpdateIfNew) {
		opts.UpdateIfNew = config.BoolPtr(c.Bool(flagUpdateIfNew))
	}
	return opts
}

// session is the per-invocation state every remote command needs
type session struct {
	app    *app.App
	opts   config.ProjectOptions
	client *zanata.Client
}

type requirement int

const (
	needProject requirement = 1 << iota
	needVersion
)

// newSession resolves options and builds the client
func newSession(c *cli.Context, req requirement) (*session, error) {
	application, err := app.FromContext(c)
	if err != nil {
		return nil, fmt.Errorf("failed to get application from context: %w", err)
	}

	opts, err := application.ProjectOptions(flagOptions(c))
	if err != nil {
		return nil, err
	}

	if req&needProject != 0 && opts.ProjectID == "" {
		return nil, zerrors.Configuration(c.Command.Name, "you need to specify a project id")
	}
	if req&needVersion != 0 {
		if opts.Version == "" {
			return nil, zerrors.Configuration(c.Command.Name, "you need to specify a version")
		}
		if opts.Version, err = application.ResolveVersion(opts.Version); err != nil {
			return nil, err
		}
	}

	client, err := application.Client(opts, c.String(flagAPIKey))
	if err != nil {
		return nil, err
	}

	return &session{app: application, opts: opts, client: client}, nil
}

// codec builds the locale codec from the configured rules
func (s *session) codec() (locale.Codec, error) {
	return locale.FromRules(s.opts.ZanataLocaleRule, s.opts.LocalLocaleRule)
}

// run executes fn under the command timeout
func (s *session) run(c *cli.Context, fn func(ctx context.Context) error) error {
	return runWithTimeout(c.Context, s.app.Config.Sync.CommandTimeout, fn)
}

// fail prints the user-facing headline for err and returns it. The cause
// itself is reported once by the caller of the CLI app.
func fail(err error, format string, args ...any) error {
	utils.PrintError(fmt.Sprintf(format, args...))
	return err
}
