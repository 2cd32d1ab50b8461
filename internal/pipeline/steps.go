package pipeline

import (
	"log/slog"
	"sort"
	"time"
)

// Step names accepted by the runner.
const (
	StepOpenDocument     = "open_document"
	StepGetInfo          = "get_info"
	StepLoadPage         = "load_page"
	StepExtractText      = "extract_text"
	StepFindAnnotations  = "find_annotations"
	StepRenderPlain      = "render_plain"
	StepApplyAnnotations = "apply_annotations"
	StepRunAll           = "run_all"
)

// Params carries the arguments a step may need. Steps read only the
// fields they use.
type Params struct {
	Path string
	Page int
	Zoom float64
}

// Metrics records one step execution.
type Metrics struct {
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// StepRunner invokes pipeline stages by name, timing each one, so a
// failing workflow can be narrowed down to a single step from logs or
// retained metrics.
type StepRunner struct {
	service        *Service
	logger         *slog.Logger
	steps          map[string]func(Params) (any, error)
	metrics        map[string]Metrics
	lastSuccessful string
}

// NewStepRunner creates a runner around an existing Service.
func NewStepRunner(service *Service, logger *slog.Logger) *StepRunner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &StepRunner{
		service: service,
		logger:  logger,
		metrics: make(map[string]Metrics),
	}
	r.steps = map[string]func(Params) (any, error){
		StepOpenDocument: func(p Params) (any, error) {
			return r.service.OpenDocument(p.Path), nil
		},
		StepGetInfo: func(Params) (any, error) {
			return r.service.Info()
		},
		StepLoadPage: func(p Params) (any, error) {
			return r.service.LoadPage(p.Page), nil
		},
		StepExtractText: func(Params) (any, error) {
			return r.service.ExtractText()
		},
		StepFindAnnotations: func(Params) (any, error) {
			return r.service.FindAnnotations()
		},
		StepRenderPlain: func(p Params) (any, error) {
			return r.service.RenderPlain(p.Zoom)
		},
		StepApplyAnnotations: func(Params) (any, error) {
			return r.service.ApplyAnnotations()
		},
		StepRunAll: func(p Params) (any, error) {
			return r.service.RunAll(p.Page, p.Zoom)
		},
	}
	return r
}

// Execute runs one named step, recording timing and outcome. An
// unregistered name returns an UnknownStepError without touching the
// metrics.
func (r *StepRunner) Execute(name string, p Params) (any, error) {
	step, ok := r.steps[name]
	if !ok {
		return nil, &UnknownStepError{Name: name}
	}

	start := time.Now()
	result, err := step(p)
	m := Metrics{
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		m.Error = err.Error()
		r.metrics[name] = m
		r.logger.Error("step failed",
			"step", name,
			"duration", m.Duration,
			"last_successful", r.lastSuccessful,
			"error", err,
		)
		return nil, err
	}

	r.metrics[name] = m
	r.lastSuccessful = name
	r.logger.Debug("step completed", "step", name, "duration", m.Duration)
	return result, nil
}

// Metrics returns the recorded metrics for a step, if it has run.
func (r *StepRunner) Metrics(name string) (Metrics, bool) {
	m, ok := r.metrics[name]
	return m, ok
}

// LastSuccessful returns the name of the most recent step that
// completed without error, or "" if none has.
func (r *StepRunner) LastSuccessful() string {
	return r.lastSuccessful
}

// Steps lists the registered step names, sorted.
func (r *StepRunner) Steps() []string {
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
