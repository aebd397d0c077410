// Package transfer drives a single pull or push against the remote service
// and reduces it to one awaitable Result.
package transfer

import (
	"context"
	"fmt"

	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/staging"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// Remote is the subset of the service client a transfer needs
type Remote interface {
	Pull(ctx context.Context, p zanata.PullParams, onItem zanata.PullHandler) (*zanata.PullSummary, error)
	Push(ctx context.Context, p zanata.PushParams) (*zanata.PushSummary, error)
}

// Result is the outcome of one transfer attempt. Exactly one of Summary and
// Err is set.
type Result struct {
	Summary any
	Err     error
}

// OK reports whether the transfer succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Request describes one transfer. Locales are already in remote form.
type Request struct {
	Project    string
	Version    string
	Scope      zanata.Scope
	Locales    []string
	StagingDir string
}

// Adapter runs transfers through a Remote and writes pulled items into the
// staging area
type Adapter struct {
	remote  Remote
	staging *staging.Manager
	logger  *loggy.Logger
}

// NewAdapter creates a transfer adapter
func NewAdapter(remote Remote, stage *staging.Manager, logger *loggy.Logger) *Adapter {
	return &Adapter{
		remote:  remote,
		staging: stage,
		logger:  logger,
	}
}

// Pull issues one pull. Items are written synchronously as they arrive; a
// terminal failure fails the whole pull even if some items were written.
func (a *Adapter) Pull(ctx context.Context, req Request) Result {
	params := zanata.PullParams{
		Project: req.Project,
		Version: req.Version,
		Scope:   req.Scope,
		Locales: req.Locales,
		SrcDir:  req.StagingDir,
		DstDir:  req.StagingDir,
		Force:   true,
	}

	written := 0
	summary, err := a.remote.Pull(ctx, params, func(item zanata.PullItem) error {
		if err := a.staging.WriteItem(req.StagingDir, item.FileName(), item.Data); err != nil {
			return err
		}
		written++
		a.logger.Debug("Received pull item", "file", item.FileName(), "document", item.Document)
		return nil
	})
	if err != nil {
		a.logger.Warn("Pull failed", "written", written, "error", err)
		return Result{Err: err}
	}
	if summary == nil {
		return Result{Err: fmt.Errorf("pull finished without a summary")}
	}

	a.logger.Info("Pull completed", "written", written, "documents", summary.Documents)
	return Result{Summary: summary}
}

// Push issues one push of the staged files. An empty staging area is still
// pushed so the remote can report on it.
func (a *Adapter) Push(ctx context.Context, req Request) Result {
	staged, err := a.staging.List(req.StagingDir)
	if err != nil {
		return Result{Err: err}
	}
	if len(staged) == 0 {
		a.logger.Warn("Nothing staged for push", "staging", req.StagingDir)
	}
	a.logger.Debug("Pushing staged files", "files", len(staged))

	summary, err := a.remote.Push(ctx, zanata.PushParams{
		Project:     req.Project,
		Version:     req.Version,
		Scope:       req.Scope,
		Locales:     req.Locales,
		SrcDir:      req.StagingDir,
		DstDir:      req.StagingDir,
		CopyTrans:   true,
		ProjectType: zanata.ProjectTypeGettext,
	})
	if err != nil {
		return Result{Err: err}
	}
	if summary == nil {
		return Result{Err: fmt.Errorf("push finished without a summary")}
	}

	a.logger.Info("Push completed", "sources", summary.Sources, "translations", summary.Translations)
	return Result{Summary: summary}
}
