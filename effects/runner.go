package effects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/Andamio-Platform/andamio-sdk-go/api"
)

// Requester issues authenticated platform API calls.
type Requester interface {
	Do(ctx context.Context, ep api.Endpoint, params map[string]any) (json.RawMessage, error)
}

// Outcome records what happened to one descriptor.
type Outcome struct {
	Name      string
	Kind      Kind
	Ran       bool
	Succeeded bool
	Skipped   bool
	Err       string
}

// RunResult aggregates a full run. Success is true iff no critical
// descriptor failed; CriticalErrors collects every critical failure, not
// just the first.
type RunResult struct {
	Outcomes       []Outcome
	Success        bool
	CriticalErrors []string
}

// Err folds the critical failures into a single error, nil when the run
// succeeded.
func (r RunResult) Err() error {
	if r.Success {
		return nil
	}
	var merr *multierror.Error
	for _, msg := range r.CriticalErrors {
		merr = multierror.Append(merr, errors.New(msg))
	}
	return merr.ErrorOrNil()
}

// Runner executes side-effect descriptors strictly in order. The ledger
// transaction is the source of truth; these calls are a best-effort
// off-chain mirror and their failures never escalate past the runner.
type Runner struct {
	api    Requester
	logger *zap.Logger
}

// NewRunner creates a side-effect runner.
func NewRunner(requester Requester, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{api: requester, logger: logger}
}

// Run processes descriptors in the order given. Later steps may depend on
// records created by earlier ones, so ordering is a correctness requirement.
// A critical failure marks the run failed but does not stop the remaining
// steps: independent side effects still get their attempt.
func (r *Runner) Run(ctx context.Context, descs []Descriptor, ec Context) RunResult {
	result := RunResult{Success: true}

	for _, d := range descs {
		outcome := r.runOne(ctx, d, ec)
		if outcome.Ran && !outcome.Succeeded && d.Critical {
			result.Success = false
			result.CriticalErrors = append(result.CriticalErrors, outcome.Err)
		}
		if !outcome.Ran && !outcome.Skipped && d.Critical {
			// Descriptor never got off the ground (unknown kind).
			result.Success = false
			result.CriticalErrors = append(result.CriticalErrors, outcome.Err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}

func (r *Runner) runOne(ctx context.Context, d Descriptor, ec Context) Outcome {
	outcome := Outcome{Name: d.Name, Kind: d.Kind}

	if !d.Kind.Valid() {
		outcome.Err = fmt.Sprintf("unknown side effect kind %q", d.Kind)
		r.logger.Warn("side effect rejected",
			zap.String("name", d.Name),
			zap.String("kind", string(d.Kind)))
		return outcome
	}

	for _, ref := range d.Requires {
		if _, ok := ec.Resolve(ref); !ok {
			outcome.Skipped = true
			r.logger.Info("side effect skipped",
				zap.String("name", d.Name),
				zap.String("unmet", ref))
			return outcome
		}
	}

	body := make(map[string]any, len(d.Fields))
	for field, ref := range d.Fields {
		if v, ok := ec.Resolve(ref); ok {
			body[field] = v
		}
	}

	outcome.Ran = true
	if _, err := r.api.Do(ctx, d.Target, body); err != nil {
		outcome.Err = err.Error()
		r.logger.Warn("side effect failed",
			zap.String("name", d.Name),
			zap.Bool("critical", d.Critical),
			zap.Error(err))
		return outcome
	}

	outcome.Succeeded = true
	r.logger.Debug("side effect applied", zap.String("name", d.Name))
	return outcome
}
