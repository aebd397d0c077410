package sync

import (
	"path/filepath"
	"strings"
	"time"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/locale"
	"github.com/tildaslashalef/zanata-sync/internal/retry"
	"github.com/tildaslashalef/zanata-sync/internal/staging"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// DefaultPullSettleDelay is waited after placing pulled files. The server can
// answer an immediately following read with a stale ETag otherwise.
const DefaultPullSettleDelay = time.Millisecond

// Defaults for the local layout
const (
	DefaultStagingDir     = "./tmp/.zanata"
	DefaultTranslationDir = "./translations"
	DefaultExcludeFile    = "excluded.pot"
	DefaultLocale         = "en"
)

// Direction of a sync
type Direction string

const (
	DirectionPush Direction = "push"
	DirectionPull Direction = "pull"
)

// DefaultScope returns the scope used when none is given
func (d Direction) DefaultScope() zanata.Scope {
	if d == DirectionPull {
		return zanata.ScopeTrans
	}
	return zanata.ScopeBoth
}

// Phase of the orchestrator state machine
type Phase string

const (
	PhasePreparing    Phase = "preparing"
	PhaseTransferring Phase = "transferring"
	PhasePlacing      Phase = "placing"
	PhaseSettling     Phase = "settling"
	PhaseCleaningUp   Phase = "cleaning-up"
	PhaseDone         Phase = "done"
	PhaseFailed       Phase = "failed"
)

// Request describes one push or pull invocation
type Request struct {
	ProjectID      string
	Version        string
	Direction      Direction
	Scope          zanata.Scope
	Locales        []string // local convention
	StagingDir     string
	TranslationDir string
	ExcludeFiles   []string
	MaxAttempts    int
	Codec          locale.Codec
}

// WithDefaults fills unset fields with the standard layout
func (r Request) WithDefaults() Request {
	if r.Scope == "" {
		r.Scope = r.Direction.DefaultScope()
	}
	if r.StagingDir == "" {
		r.StagingDir = DefaultStagingDir
	}
	if r.TranslationDir == "" {
		r.TranslationDir = DefaultTranslationDir
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = retry.DefaultMaxAttempts
	}
	if r.Codec.ToRemote == nil || r.Codec.ToLocal == nil {
		r.Codec = locale.Default(locale.WithToRemote(r.Codec.ToRemote), locale.WithToLocal(r.Codec.ToLocal))
	}
	return r
}

// Validate reports configuration errors before anything touches disk or network
func (r Request) Validate() error {
	const op = "validate sync request"

	if strings.TrimSpace(r.ProjectID) == "" {
		return zerrors.Configuration(op, "you need to specify a project id")
	}
	if strings.TrimSpace(r.Version) == "" {
		return zerrors.Configuration(op, "you need to specify a version")
	}
	if r.Direction != DirectionPush && r.Direction != DirectionPull {
		return zerrors.Configuration(op, "unknown direction %q", r.Direction)
	}
	if _, ok := zanata.ParseScope(string(r.Scope)); !ok {
		return zerrors.Configuration(op, "unknown update type %q (use source, trans or both)", r.Scope)
	}
	if len(r.Locales) == 0 {
		return zerrors.Configuration(op, "at least one locale is required")
	}
	for _, l := range r.Locales {
		if strings.TrimSpace(l) == "" {
			return zerrors.Configuration(op, "empty locale in locale list")
		}
	}
	if r.Direction == DirectionPush && r.MaxAttempts < 1 {
		return zerrors.Configuration(op, "try count must be at least 1, got %d", r.MaxAttempts)
	}
	if r.StagingDir == "" || r.TranslationDir == "" {
		return zerrors.Configuration(op, "staging and translation folders are required")
	}

	overlap, err := overlapping(r.StagingDir, r.TranslationDir)
	if err != nil {
		return zerrors.Configuration(op, "resolve folders: %v", err)
	}
	if overlap {
		return zerrors.Configuration(op, "staging folder %s and translation folder %s must not contain each other", r.StagingDir, r.TranslationDir)
	}
	return nil
}

// overlapping reports whether a and b are the same directory or one lies
// inside the other
func overlapping(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return within(absA, absB) || within(absB, absA), nil
}

// within reports whether path equals dir or is below it
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Report records what one invocation did
type Report struct {
	SyncID    string
	Direction Direction
	Phases    []Phase
	Staged    []staging.File
	Placed    []staging.File
	Retry     *retry.State
	Summary   any
	Started   time.Time
	Duration  time.Duration
}

func (r *Report) enter(p Phase) {
	r.Phases = append(r.Phases, p)
}

// Final returns the last phase reached
func (r *Report) Final() Phase {
	if len(r.Phases) == 0 {
		return ""
	}
	return r.Phases[len(r.Phases)-1]
}
