package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/config"
	"github.com/tildaslashalef/zanata-sync/internal/utils"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// VersionInfoCommand lists the enabled locales of a version
func VersionInfoCommand() *cli.Command {
	return &cli.Command{
		Name:   "version-info",
		Usage:  "Show the locales of a version",
		Flags:  withFlags(serverFlags(), []cli.Flag{projectFlag(), versionFlag("The version to show")}),
		Action: versionInfoAction,
	}
}

func versionInfoAction(c *cli.Context) error {
	s, err := newSession(c, needProject|needVersion)
	if err != nil {
		return err
	}
	projectID, version := s.opts.ProjectID, s.opts.Version
	codec, err := s.codec()
	if err != nil {
		return err
	}

	return s.run(c, func(ctx context.Context) error {
		locales, err := s.client.VersionInfo(ctx, projectID, version)
		if err != nil {
			return fail(err, "An error occurred when loading the version %s for %s.", version, projectID)
		}

		utils.PrintSuccess(fmt.Sprintf("Version %s for project %s was successfully loaded", version, projectID))
		utils.PrintPlain("It has the following locales:")

		var enabled []zanata.Locale
		var ids []string
		for _, l := range locales {
			if l.Enabled {
				enabled = append(enabled, l)
				ids = append(ids, l.LocaleID)
			}
		}

		rows := make([][]string, 0, len(enabled))
		for i, file := range codec.DecodeAll(ids) {
			rows = append(rows, []string{enabled[i].LocaleID, enabled[i].DisplayName, file + ".po"})
		}
		utils.PrintTable([]string{"Locale", "Name", "Local file"}, rows, utils.TableOptions{Title: projectID + " " + version})
		return nil
	})
}

// VersionStatsCommand prints word translation progress per document and locale
func VersionStatsCommand() *cli.Command {
	return &cli.Command{
		Name:   "version-stats",
		Usage:  "Show the translation progress of a version",
		Flags:  withFlags(serverFlags(), []cli.Flag{projectFlag(), versionFlag("The version to inspect")}),
		Action: versionStatsAction,
	}
}

func versionStatsAction(c *cli.Context) error {
	s, err := newSession(c, needProject|needVersion)
	if err != nil {
		return err
	}
	projectID, version := s.opts.ProjectID, s.opts.Version

	return s.run(c, func(ctx context.Context) error {
		docs, err := s.client.PullSources(ctx, projectID, version)
		if err != nil {
			return fail(err, "An error occurred when loading the documents for %s of %s.", version, projectID)
		}

		for _, doc := range docs {
			stats, err := s.client.Stats(ctx, projectID, version, doc.Name)
			if err != nil {
				return fail(err, "An error occurred when loading the stats for version %s of %s.", version, projectID)
			}
			printDocStats(projectID, version, doc.Name, stats.Unit(zanata.UnitWord))
		}
		return nil
	})
}

func printDocStats(projectID, version, doc string, words []zanata.Stat) {
	var total, translated int
	for _, st := range words {
		total += st.Total
		translated += st.Translated
	}
	overall := zanata.Stat{Total: total, Translated: translated}

	utils.PrintSuccess(fmt.Sprintf("Translation progress for version %s of project %s (document %s): %s",
		version, projectID, doc, utils.FormatPercent(overall.Percentage())))

	for _, st := range words {
		utils.PrintProgress(st.Percentage(), fmt.Sprintf("%s: %s (%d/%d) of phrases translated",
			st.Locale, utils.FormatPercent(st.Percentage()), st.Translated, st.Total))
	}
}

// VersionCreateCommand creates a version and by default pushes into it
func VersionCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "version-create",
		Usage: "Create a new version",
		Description: "Creates a gettext version. Unless --update-if-new=false is given, " +
			"the current translation files are pushed into the new version right away.",
		Flags: withFlags(
			serverFlags(),
			[]cli.Flag{
				projectFlag(),
				versionFlag("The version to create"),
				&cli.BoolFlag{
					Name:  flagResolveIfExists,
					Usage: "Succeed when the version already exists",
				},
				&cli.BoolFlag{
					Name:  flagUpdateIfNew,
					Usage: "Push the translation files after creating the version",
					Value: true,
				},
			},
			folderFlags(),
			pushFlags(),
		),
		Action: versionCreateAction,
	}
}

func versionCreateAction(c *cli.Context) error {
	s, err := newSession(c, needProject|needVersion)
	if err != nil {
		return err
	}
	projectID, version := s.opts.ProjectID, s.opts.Version

	return s.run(c, func(ctx context.Context) error {
		_, err := s.client.CreateVersion(ctx, projectID, version, zanata.ProjectTypeGettext)
		if errors.Is(err, zanata.ErrVersionExists) && config.Bool(s.opts.ResolveIfExists) {
			utils.PrintSuccess(fmt.Sprintf("The version %s already exists for %s", version, projectID))
			return nil
		}
		if err != nil {
			return fail(err, "An error occurred when creating new version %s for %s.", version, projectID)
		}

		utils.PrintSuccess(fmt.Sprintf("The version %s was successfully created for %s", version, projectID))

		if !config.Bool(s.opts.UpdateIfNew) {
			utils.PrintSuccess(fmt.Sprintf("Run zanata-sync push --version=%q to initialise the version.", version))
			return nil
		}

		utils.PrintPlain("Now, push the current translation files...")
		if err := s.push(ctx); err != nil {
			return err
		}
		utils.PrintSuccess(fmt.Sprintf("All done! The new version %s is now ready to be translated.", version))
		return nil
	})
}
