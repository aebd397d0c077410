// Package commands holds the zanata-sync command line actions.
package commands

import "github.com/urfave/cli/v2"

// All returns every top-level command
func All() []*cli.Command {
	return []*cli.Command{
		InitCommand(),
		AuthCommand(),
		ProjectListCommand(),
		ProjectInfoCommand(),
		VersionInfoCommand(),
		VersionStatsCommand(),
		VersionCreateCommand(),
		PushCommand(),
		PullCommand(),
	}
}
