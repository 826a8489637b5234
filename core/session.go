package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tlxkit/tlxkit/core/algo"
	"github.com/tlxkit/tlxkit/internal/contract"
	"github.com/tlxkit/tlxkit/schema"
)

// ErrInactiveInstrument is returned when an operation names an instrument
// the session mode does not rate.
var ErrInactiveInstrument = errors.New("instrument is not rated in this mode")

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for per-operation debug records.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the state of one scoring session: identity, the current weight
// maps and the ledger. All scoring goes through the pure functions in algo;
// Session only sequences them. A Session is not safe for concurrent use.
type Session struct {
	info    schema.SessionInfo
	weights map[schema.InstrumentName]schema.WeightMap
	ledger  Ledger
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewSession returns a session with unset weights and an empty ledger.
// An empty mode means TLX only.
func NewSession(info schema.SessionInfo, opts ...SessionOption) *Session {
	if info.Mode == "" {
		info.Mode = schema.TLXMode
	}
	s := &Session{
		info: info,
		weights: map[schema.InstrumentName]schema.WeightMap{
			schema.TLXName: schema.NewUnsetWeights(schema.TLX),
			schema.SAQName: schema.NewUnsetWeights(schema.SAQ),
		},
		logger: contract.DiscardLogger(),
		tracer: otel.Tracer("tlxkit-session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Info returns the session identity.
func (s *Session) Info() schema.SessionInfo { return s.info }

// Mode returns the scoring mode.
func (s *Session) Mode() schema.ScoringMode { return s.info.Mode }

// Weights returns a copy of the current weight map of in.
func (s *Session) Weights(in *schema.Instrument) schema.WeightMap {
	return s.weights[in.Name()].Clone()
}

// NextTaskID returns the id the next submitted task will get.
func (s *Session) NextTaskID() int { return s.ledger.NextID() }

// FileName returns "<study>_<participant>.<ext>".
func (s *Session) FileName(ext string) string { return s.info.FileName(ext) }

func (s *Session) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("study", s.info.Study),
		attribute.String("mode", string(s.info.Mode)))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (s *Session) checkActive(in *schema.Instrument) error {
	for _, active := range s.info.Mode.Instruments() {
		if active == in {
			return nil
		}
	}
	return fmt.Errorf("%s in %s mode: %w", in.Name(), s.info.Mode, ErrInactiveInstrument)
}

// Reweight derives a new weight map for in from user-entered pair choices
// and replaces the current one wholesale. Choices are normalized and
// validated first; on error the weights are left untouched.
func (s *Session) Reweight(ctx context.Context, in *schema.Instrument, raw map[string]string) (weights schema.WeightMap, err error) {
	_, span := s.startSpan(ctx, "Session.Reweight", attribute.String("instrument", string(in.Name())))
	defer func() { endSpan(span, err) }()

	if err := s.checkActive(in); err != nil {
		return nil, err
	}
	choices, err := NormalizeChoices(in, raw)
	if err != nil {
		return nil, err
	}
	weights = algo.DeriveWeights(in, choices)
	s.weights[in.Name()] = weights
	s.logger.Debug("weights derived", "instrument", in.Name(), "weights", weights)
	return weights.Clone(), nil
}

// SetWeights replaces the weight map of in with a precomputed one.
func (s *Session) SetWeights(ctx context.Context, in *schema.Instrument, weights schema.WeightMap) (err error) {
	_, span := s.startSpan(ctx, "Session.SetWeights", attribute.String("instrument", string(in.Name())))
	defer func() { endSpan(span, err) }()

	if err := s.checkActive(in); err != nil {
		return err
	}
	if err := in.CheckWeights(weights); err != nil {
		return err
	}
	s.weights[in.Name()] = weights.Clone()
	s.logger.Debug("weights set", "instrument", in.Name(), "weights", weights)
	return nil
}

// Submit scores a task with the current weights and appends it to the
// ledger. The weights in effect are copied into the record, so a later
// Reweight never changes it.
func (s *Session) Submit(ctx context.Context, name string, ratings schema.RatingMap) (record schema.TaskResult, err error) {
	_, span := s.startSpan(ctx, "Session.Submit",
		attribute.String("task", name),
		attribute.Int("task_id", s.ledger.NextID()))
	defer func() { endSpan(span, err) }()

	if err := ValidateRatings(s.info.Mode, ratings); err != nil {
		return schema.TaskResult{}, err
	}

	var tlxWeights, saqWeights schema.WeightMap
	if s.info.Mode.UsesTLX() {
		tlxWeights = s.weights[schema.TLXName]
	}
	if s.info.Mode.UsesSAQ() {
		saqWeights = s.weights[schema.SAQName]
	}
	scores := algo.ScoreTask(s.info.Mode, ratings, tlxWeights, saqWeights)

	s.ledger, record = s.ledger.Append(name, ratings, tlxWeights, saqWeights, scores)
	s.logger.Debug("task submitted",
		"task_id", record.ID,
		"task", name,
		"raw_tlx", scores.RawTLX.String(),
		"weighted_tlx", scores.WeightedTLX.String(),
		"raw_saq", scores.RawSAQ.String(),
		"weighted_saq", scores.WeightedSAQ.String())
	return record, nil
}

// Reset empties the ledger; the next task gets id 1. Weights are kept.
func (s *Session) Reset(ctx context.Context) {
	_, span := s.startSpan(ctx, "Session.Reset", attribute.Int("discarded", s.ledger.Len()))
	defer endSpan(span, nil)

	s.logger.Debug("session reset", "discarded", s.ledger.Len())
	s.ledger = s.ledger.Reset()
}

// Results returns the render model of the session.
func (s *Session) Results() schema.SessionResults {
	results := schema.SessionResults{
		SessionInfo: s.info,
		Tasks:       s.ledger.Records(),
	}
	if s.info.Mode.UsesTLX() {
		results.TLXWeights = s.Weights(schema.TLX)
	}
	if s.info.Mode.UsesSAQ() {
		results.SAQWeights = s.Weights(schema.SAQ)
	}
	return results
}
