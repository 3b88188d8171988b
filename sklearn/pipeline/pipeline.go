// Package pipeline implements a scikit-learn compatible Pipeline for chaining
// matrix transformers. Each step is fitted on the output of the previous one;
// once fitted, Transform replays the same steps with their frozen statistics.
package pipeline

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/scoreprep/core/model"
	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
)

// Step represents a single named step in the pipeline.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline chains transformers. It is gob-encodable as long as the concrete
// step types are registered with encoding/gob.
type Pipeline struct {
	model.BaseEstimator

	Steps []Step

	logger log.Logger
}

// New creates a new Pipeline with the given steps.
// This is equivalent to sklearn.pipeline.Pipeline(steps)
//
// Example:
//
//	numeric := pipeline.New(
//		pipeline.Step{Name: "imputer", Transformer: preprocessing.NewSimpleImputer(preprocessing.StrategyMedian)},
//		pipeline.Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()},
//	)
func New(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps, logger: log.Nop()}
}

// Make is a convenience function similar to sklearn.pipeline.make_pipeline.
// It names the steps step1, step2, ...
func Make(transformers ...model.Transformer) *Pipeline {
	steps := make([]Step, len(transformers))
	for i, t := range transformers {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Transformer: t}
	}
	return New(steps...)
}

// SetLogger attaches a logger. A decoded pipeline has none until set.
func (p *Pipeline) SetLogger(logger log.Logger) {
	p.logger = logger
}

func (p *Pipeline) getLogger() log.Logger {
	if p.logger == nil {
		p.logger = log.Nop()
	}
	return p.logger
}

func (p *Pipeline) validate() error {
	if len(p.Steps) == 0 {
		return errors.NewValidationError("pipeline steps", "pipeline has no steps", 0)
	}
	seen := make(map[string]bool, len(p.Steps))
	for _, step := range p.Steps {
		if step.Transformer == nil {
			return errors.NewValidationError("pipeline step", "transformer is nil", step.Name)
		}
		if seen[step.Name] {
			return errors.NewValidationError("pipeline step", "duplicate step name", step.Name)
		}
		seen[step.Name] = true
	}
	return nil
}

// Fit fits every step on the output of the previous one.
func (p *Pipeline) Fit(X mat.Matrix) error {
	_, err := p.FitTransform(X)
	return err
}

// FitTransform fits the pipeline and returns the transformed training data.
func (p *Pipeline) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	Xt := X
	var err error
	for _, step := range p.Steps {
		start := time.Now()
		Xt, err = step.Transformer.FitTransform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to fit step '%s'", step.Name))
		}

		r, c := Xt.Dims()
		p.getLogger().Debug("Pipeline step fitted",
			log.OperationKey, log.OperationFit,
			log.ModelNameKey, step.Name,
			log.SamplesKey, r,
			log.OutputsKey, c,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	p.SetFitted()
	return Xt, nil
}

// Transform applies every fitted step in order.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Transform")
	}

	Xt := X
	var err error
	for _, step := range p.Steps {
		Xt, err = step.Transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}
	return Xt, nil
}

// InverseTransform applies inverse transformations in reverse order.
// Only works if all steps implement model.InverseTransformer.
func (p *Pipeline) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "InverseTransform")
	}

	Xt := X
	var err error
	for i := len(p.Steps) - 1; i >= 0; i-- {
		step := p.Steps[i]

		inverse, ok := step.Transformer.(model.InverseTransformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline step",
				"all steps must have InverseTransform method",
				step.Name,
			)
		}

		Xt, err = inverse.InverseTransform(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to inverse transform at step '%s'", step.Name))
		}
	}
	return Xt, nil
}

// NamedSteps returns the steps as a map for easy access by name.
func (p *Pipeline) NamedSteps() map[string]model.Transformer {
	named := make(map[string]model.Transformer, len(p.Steps))
	for _, step := range p.Steps {
		named[step.Name] = step.Transformer
	}
	return named
}

// GetParams returns the parameters of every step prefixed with its name,
// e.g. "scaler__with_mean".
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	for _, step := range p.Steps {
		if getter, ok := step.Transformer.(interface {
			GetParams() map[string]interface{}
		}); ok {
			for key, value := range getter.GetParams() {
				params[fmt.Sprintf("%s__%s", step.Name, key)] = value
			}
		}
	}
	return params
}
