package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/app"
	"github.com/tildaslashalef/zanata-sync/internal/config"
	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/utils"
)

// promptAPIKey asks for the API key without echoing it
var promptAPIKey = func(url, username string) (string, error) {
	var key string
	prompt := &survey.Password{
		Message: fmt.Sprintf("API key for %s on %s:", username, url),
		Help:    "Found in the Zanata web UI under Settings > Client",
	}
	if err := survey.AskOne(prompt, &key, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

// AuthCommand manages the API key stored in the OS keyring
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage stored Zanata credentials",
		Subcommands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Store an API key in the OS keyring",
				Flags: withFlags(serverFlags(), []cli.Flag{
					&cli.BoolFlag{
						Name:  "verify",
						Usage: "Check the key against the server before storing it",
						Value: true,
					},
				}),
				Action: authLoginAction,
			},
			{
				Name:   "logout",
				Usage:  "Remove the stored API key",
				Flags:  serverFlags(),
				Action: authLogoutAction,
			},
			{
				Name:   "status",
				Usage:  "Show whether an API key is stored",
				Flags:  serverFlags(),
				Action: authStatusAction,
			},
		},
	}
}

// account resolves url and username for the auth subcommands
func account(c *cli.Context) (*app.App, config.ProjectOptions, error) {
	application, err := app.FromContext(c)
	if err != nil {
		return nil, config.ProjectOptions{}, fmt.Errorf("failed to get application from context: %w", err)
	}

	opts, err := application.ProjectOptions(config.ProjectOptions{
		URL:      c.String(flagURL),
		Username: c.String(flagUsername),
	})
	if err != nil {
		return nil, opts, err
	}
	if opts.URL == "" || opts.Username == "" {
		return nil, opts, zerrors.Configuration("auth", "you need to specify the Zanata url and username")
	}
	return application, opts, nil
}

func authLoginAction(c *cli.Context) error {
	application, opts, err := account(c)
	if err != nil {
		return err
	}

	key := c.String(flagAPIKey)
	if key == "" {
		key, err = promptAPIKey(opts.URL, opts.Username)
		if err != nil {
			return err
		}
	}

	if c.Bool("verify") {
		client, err := application.Client(opts, key)
		if err != nil {
			return err
		}
		err = runWithTimeout(c.Context, application.Config.Sync.CommandTimeout, func(ctx context.Context) error {
			_, err := client.List(ctx)
			return err
		})
		if err != nil {
			return fail(err, "The API key was rejected by %s.", opts.URL)
		}
	}

	if err := config.StoreAPIKey(opts.URL, opts.Username, key); err != nil {
		return fail(err, "Could not store the API key.")
	}

	utils.PrintSuccess(fmt.Sprintf("API key stored for %s on %s", color.YellowString("%s", opts.Username), color.YellowString("%s", opts.URL)))
	return nil
}

func authLogoutAction(c *cli.Context) error {
	_, opts, err := account(c)
	if err != nil {
		return err
	}

	if err := config.DeleteAPIKey(opts.URL, opts.Username); err != nil {
		return fail(err, "Could not remove the stored API key.")
	}

	utils.PrintSuccess(fmt.Sprintf("Removed the stored API key for %s on %s", opts.Username, opts.URL))
	return nil
}

func authStatusAction(c *cli.Context) error {
	_, opts, err := account(c)
	if err != nil {
		return err
	}

	_, err = config.LookupAPIKey(opts.URL, opts.Username)
	switch {
	case errors.Is(err, config.ErrNoCredentials):
		utils.PrintWarning(fmt.Sprintf("No API key stored for %s on %s", opts.Username, opts.URL))
		return nil
	case err != nil:
		return fail(err, "Could not read the OS keyring.")
	}

	utils.PrintSuccess(fmt.Sprintf("An API key is stored for %s on %s", opts.Username, opts.URL))
	return nil
}
