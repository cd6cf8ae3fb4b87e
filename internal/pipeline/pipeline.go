package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage applied to a Sample.
type Step interface {
	// Do executes the step. Non-critical failures are recorded on the
	// sample and return nil.
	Do(ctx context.Context, sample *Sample) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order on a single sample.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps on sample in order. Cancellation is checked
// before each step. The first step error stops the pipeline.
func (p *Pipeline) Execute(ctx context.Context, sample *Sample) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", sample.URL,
				"reason", ctx.Err(),
			)
			sample.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", sample.URL,
		)

		if err := step.Do(ctx, sample); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", sample.URL,
				"error", err,
			)
			sample.Err = err
			return err
		}

		sample.PerformedSteps = append(sample.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
