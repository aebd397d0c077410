// Package sync orchestrates push and pull runs: it stages files, drives the
// transfer, places pulled files and always removes the staging directory.
package sync

import (
	"context"
	"time"

	"github.com/tildaslashalef/zanata-sync/internal/locale"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/retry"
	"github.com/tildaslashalef/zanata-sync/internal/staging"
	"github.com/tildaslashalef/zanata-sync/internal/transfer"
)

// Stager is the staging area as seen by the orchestrator
type Stager interface {
	Prepare(stagingPath string) error
	CollectForPush(sourceDir, stagingPath string, exclude []string, encode locale.Func) ([]staging.File, error)
	PlaceFromPull(stagingPath, outputDir string, decode locale.Func) ([]staging.File, error)
	Cleanup(stagingPath string) error
}

// Transferer performs a single pull or push attempt
type Transferer interface {
	Pull(ctx context.Context, req transfer.Request) transfer.Result
	Push(ctx context.Context, req transfer.Request) transfer.Result
}

// Service runs sync invocations
type Service struct {
	staging     Stager
	transfer    Transferer
	retry       *retry.Controller
	settleDelay time.Duration
	logger      *loggy.Logger
}

// Option customizes a Service
type Option func(*Service)

// WithPullSettleDelay overrides DefaultPullSettleDelay
func WithPullSettleDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.settleDelay = d
		}
	}
}

// NewService creates a sync service
func NewService(stage Stager, tr Transferer, rc *retry.Controller, logger *loggy.Logger, opts ...Option) *Service {
	s := &Service{
		staging:     stage,
		transfer:    tr,
		retry:       rc,
		settleDelay: DefaultPullSettleDelay,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push uploads the local translation folder
func (s *Service) Push(ctx context.Context, req Request) (*Report, error) {
	req.Direction = DirectionPush
	return s.Run(ctx, req)
}

// Pull downloads into the local translation folder
func (s *Service) Pull(ctx context.Context, req Request) (*Report, error) {
	req.Direction = DirectionPull
	return s.Run(ctx, req)
}

// Run executes one invocation. The staging directory is removed exactly once
// on every path after it was prepared.
func (s *Service) Run(ctx context.Context, req Request) (report *Report, err error) {
	req = req.WithDefaults()
	report = &Report{Direction: req.Direction, Started: time.Now()}

	if err := req.Validate(); err != nil {
		report.enter(PhaseFailed)
		return report, err
	}

	report.SyncID = loggy.NewSyncID()
	ctx = loggy.WithLogger(ctx, s.logger)
	ctx = loggy.WithSyncID(ctx, report.SyncID)
	logger := loggy.FromContext(ctx).With(
		"project", req.ProjectID,
		"version", req.Version,
		"direction", req.Direction,
		"scope", req.Scope,
	)
	logger.Info("Sync started", "locales", req.Locales, "staging", req.StagingDir, "translations", req.TranslationDir)

	var result transfer.Result
	report.enter(PhasePreparing)
	defer func() {
		report.enter(PhaseSettling)
		report.enter(PhaseCleaningUp)
		if cerr := s.staging.Cleanup(req.StagingDir); cerr != nil {
			logger.WithError(cerr).Warn("Failed to remove staging directory", "path", req.StagingDir)
			if err == nil {
				err = cerr
			}
		}

		report.Duration = time.Since(report.Started)
		if err != nil {
			report.enter(PhaseFailed)
			logger.WithError(err).Error("Sync failed", "phases", report.Phases, "duration", report.Duration)
			return
		}
		report.Summary = result.Summary
		report.enter(PhaseDone)
		logger.Info("Sync finished", "duration", report.Duration)
	}()

	if err := s.staging.Prepare(req.StagingDir); err != nil {
		return report, err
	}

	treq := transfer.Request{
		Project:    req.ProjectID,
		Version:    req.Version,
		Scope:      req.Scope,
		Locales:    req.Codec.EncodeAll(req.Locales),
		StagingDir: req.StagingDir,
	}

	switch req.Direction {
	case DirectionPush:
		staged, err := s.staging.CollectForPush(req.TranslationDir, req.StagingDir, req.ExcludeFiles, req.Codec.Encode)
		report.Staged = staged
		if err != nil {
			return report, err
		}

		report.enter(PhaseTransferring)
		var state *retry.State
		result, state = s.retry.AttemptPush(ctx, func(ctx context.Context) transfer.Result {
			return s.transfer.Push(ctx, treq)
		}, req.MaxAttempts)
		report.Retry = state
		if !result.OK() {
			return report, result.Err
		}

	case DirectionPull:
		report.enter(PhaseTransferring)
		result = s.transfer.Pull(ctx, treq)
		if !result.OK() {
			return report, result.Err
		}

		report.enter(PhasePlacing)
		placed, err := s.staging.PlaceFromPull(req.StagingDir, req.TranslationDir, req.Codec.Decode)
		report.Placed = placed
		if err != nil {
			return report, err
		}
		if err := s.settle(ctx); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *Service) settle(ctx context.Context) error {
	if s.settleDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
