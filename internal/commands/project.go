package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/utils"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// ProjectListCommand lists the active projects on the server
func ProjectListCommand() *cli.Command {
	return &cli.Command{
		Name:   "project-list",
		Usage:  "List all active projects",
		Flags:  serverFlags(),
		Action: projectListAction,
	}
}

func projectListAction(c *cli.Context) error {
	s, err := newSession(c, 0)
	if err != nil {
		return err
	}

	return s.run(c, func(ctx context.Context) error {
		projects, err := s.client.List(ctx)
		if err != nil {
			return fail(err, "An error occurred when loading the projects.")
		}

		var active []zanata.Project
		for _, p := range projects {
			if p.Status == zanata.StatusActive {
				active = append(active, p)
			}
		}

		utils.PrintSuccess(fmt.Sprintf("%d active projects were found:", len(active)))
		for _, p := range active {
			utils.PrintPlain(fmt.Sprintf("%s (%s)", p.Name, p.ID))
		}
		return nil
	})
}

// ProjectInfoCommand shows a project and its latest active version
func ProjectInfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "project-info",
		Usage:  "Show a project and its latest version",
		Flags:  withFlags(serverFlags(), []cli.Flag{projectFlag()}),
		Action: projectInfoAction,
	}
}

func projectInfoAction(c *cli.Context) error {
	s, err := newSession(c, needProject)
	if err != nil {
		return err
	}
	projectID := s.opts.ProjectID

	return s.run(c, func(ctx context.Context) error {
		info, err := s.client.Info(ctx, projectID)
		if err != nil {
			return fail(err, "An error occurred when loading the project %s.", projectID)
		}

		utils.PrintSuccess(fmt.Sprintf("Project %s was successfully loaded", projectID))
		utils.PrintKeyValue("Project name", info.Name)
		if latest, ok := info.LatestActiveVersion(); ok {
			utils.PrintKeyValue("Latest version", latest.ID)
		} else {
			utils.PrintWarning("The project has no active version")
		}
		return nil
	})
}
