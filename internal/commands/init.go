package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/app"
	"github.com/tildaslashalef/zanata-sync/internal/config"
	"github.com/tildaslashalef/zanata-sync/internal/utils"
)

// InitCommand returns the CLI command for initializing zanata-sync
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize the zanata-sync environment",
		Description: "Creates the configuration directory with a sample .env file. " +
			"With --project a sample config/zanata.yml is written to the project root as well.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "project",
				Usage: "Also write config/zanata.yml into the current project",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing files, keeping a dated backup",
			},
		},
		Action: initAction,
	}
}

func initAction(c *cli.Context) error {
	utils.PrintHeading("Initializing zanata-sync")
	force := c.Bool("force")

	configDir := ""
	if application, err := app.FromContext(c); err == nil {
		configDir = application.Config.ConfigDir()
	}
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			utils.PrintError("Failed to get user home directory")
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, config.DirName)
	}
	utils.PrintInfo("Configuration directory: " + color.YellowString("%s", configDir))

	utils.PrintInfo("Extracting default configuration file")
	if err := config.SetupConfigDirectory(configDir, force); err != nil {
		utils.PrintError("Failed to create config directory")
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFilePath := filepath.Join(configDir, ".env")
	cfg, err := config.LoadFromEnv(configDir, configFilePath)
	if err != nil {
		utils.PrintError("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.Bool("project") {
		application, err := app.FromContext(c)
		if err != nil {
			return fmt.Errorf("failed to get application from context: %w", err)
		}
		path, err := config.SetupProjectFile(application.Root, force)
		if err != nil {
			utils.PrintError("Failed to write project options")
			return fmt.Errorf("failed to write project options: %w", err)
		}
		utils.PrintInfo("Project options: " + color.YellowString("%s", path))
	}

	utils.PrintSuccess("zanata-sync initialized successfully!")
	utils.PrintInfo("Configuration file: " + color.YellowString("%s", configFilePath))
	utils.PrintInfo("Log file location: " + color.YellowString("%s", cfg.Logging.Output))
	utils.PrintPlain("")
	utils.PrintInfo("Store your API key with " + color.CyanString("zanata-sync auth login") + ".")

	return nil
}
