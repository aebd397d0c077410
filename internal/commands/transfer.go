package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/sync"
	"github.com/tildaslashalef/zanata-sync/internal/utils"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// PushCommand uploads the translation folder to a version
func PushCommand() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Update a version with data from your locale folder",
		Description: "Copies the source templates and translations into a staging folder " +
			"and uploads them. The Zanata API is a bit flaky, so the upload is tried " +
			"several times (see --try-count).",
		Flags: withFlags(
			serverFlags(),
			[]cli.Flag{projectFlag(), versionFlag("The version to update")},
			folderFlags(),
			pushFlags(),
		),
		Action: pushAction,
	}
}

func pushAction(c *cli.Context) error {
	s, err := newSession(c, needProject|needVersion)
	if err != nil {
		return err
	}
	return s.run(c, s.push)
}

// push runs the push workflow and reports the outcome
func (s *session) push(ctx context.Context) error {
	req, err := s.syncRequest(sync.DirectionPush)
	if err != nil {
		return err
	}

	svc := s.app.SyncService(s.client, func(attempt int, _ error) {
		utils.PrintPlain(fmt.Sprintf("Version update failed (try #%d), trying again...", attempt))
	})

	report, err := svc.Push(ctx, req)
	if err != nil {
		return fail(err, "An error occurred when updating version %s for %s.", req.Version, req.ProjectID)
	}

	utils.PrintSuccess(fmt.Sprintf("The version %s was successfully updated for %s", req.Version, req.ProjectID))
	if summary, ok := report.Summary.(*zanata.PushSummary); ok {
		utils.PrintKeyValue("Documents", strconv.Itoa(summary.Documents))
		utils.PrintKeyValue("Sources", strconv.Itoa(summary.Sources))
		utils.PrintKeyValue("Translations", strconv.Itoa(summary.Translations))
	}
	return nil
}

// PullCommand downloads a version into the translation folder
func PullCommand() *cli.Command {
	return &cli.Command{
		Name:  "pull",
		Usage: "Update your locale folder with data from a version",
		Flags: withFlags(
			serverFlags(),
			[]cli.Flag{projectFlag(), versionFlag("The version to pull")},
			folderFlags(),
		),
		Action: pullAction,
	}
}

func pullAction(c *cli.Context) error {
	s, err := newSession(c, needProject|needVersion)
	if err != nil {
		return err
	}
	return s.run(c, s.pull)
}

func (s *session) pull(ctx context.Context) error {
	req, err := s.syncRequest(sync.DirectionPull)
	if err != nil {
		return err
	}

	s.warnLocalChanges(req.TranslationDir)

	report, err := s.app.SyncService(s.client, nil).Pull(ctx, req)
	if err != nil {
		return fail(err, "An error occurred when pulling version %s for %s.", req.Version, req.ProjectID)
	}

	utils.PrintSuccess(fmt.Sprintf("The version %s was successfully pulled for %s", req.Version, req.ProjectID))
	if summary, ok := report.Summary.(*zanata.PullSummary); ok {
		utils.PrintKeyValue("Documents", strconv.Itoa(summary.Documents))
		utils.PrintKeyValue("Sources", strconv.Itoa(summary.Sources))
		utils.PrintKeyValue("Translations", strconv.Itoa(summary.Translations))
		if summary.Skipped > 0 {
			utils.PrintKeyValue("Not yet translated", strconv.Itoa(summary.Skipped))
		}
	}
	return nil
}

// warnLocalChanges points out uncommitted edits a pull is about to overwrite
func (s *session) warnLocalChanges(translationDir string) {
	rel, err := filepath.Rel(s.app.Root, translationDir)
	if err != nil {
		return
	}

	changed, err := s.app.Git.ModifiedFiles(s.app.Root, rel)
	if err != nil {
		s.app.Logger.Debug("Could not inspect translation folder", "error", err)
		return
	}
	if len(changed) == 0 {
		return
	}

	utils.PrintWarning(fmt.Sprintf("%d translation file(s) have uncommitted changes and may be overwritten:", len(changed)))
	utils.PrintList(changed, "")
}

func (s *session) syncRequest(direction sync.Direction) (sync.Request, error) {
	codec, err := s.codec()
	if err != nil {
		return sync.Request{}, err
	}

	return sync.Request{
		ProjectID:      s.opts.ProjectID,
		Version:        s.opts.Version,
		Direction:      direction,
		Scope:          zanata.Scope(s.opts.UpdateType),
		Locales:        s.opts.Locales,
		StagingDir:     s.app.Path(s.opts.TmpDir),
		TranslationDir: s.app.Path(s.opts.TranslationFolder),
		ExcludeFiles:   s.opts.ExcludeFiles,
		MaxAttempts:    s.opts.TryCount,
		Codec:          codec,
	}, nil
}
