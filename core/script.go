package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tlxkit/tlxkit/schema"
)

var validate = validator.New()

// EventKind names one step of a session script.
type EventKind string

// Script event kinds.
const (
	ReweightEvent EventKind = "reweight" // derive weights from pair choices
	WeightsEvent  EventKind = "weights"  // set a precomputed weight map
	TaskEvent     EventKind = "task"     // submit one task
	ResetEvent    EventKind = "reset"    // clear the ledger
)

// Event is one step of a session script.
type Event struct {
	Kind       EventKind         `yaml:"kind" validate:"required,oneof=reweight weights task reset"`
	Instrument string            `yaml:"instrument,omitempty" validate:"omitempty,oneof=tlx saq TLX SAQ"`
	Choices    map[string]string `yaml:"choices,omitempty" validate:"required_if=Kind reweight"`
	Weights    map[string]int    `yaml:"weights,omitempty" validate:"required_if=Kind weights,dive,gte=0"`
	Name       string            `yaml:"name,omitempty"`
	TLX        map[string]int    `yaml:"tlx,omitempty" validate:"dive,gte=0,lte=100"`
	SAQ        map[string]int    `yaml:"saq,omitempty" validate:"dive,gte=0,lte=100"`
}

// Script is a recorded session: who took it, in which mode, and the
// ordered steps to replay.
type Script struct {
	Study       string  `yaml:"study,omitempty"`
	Participant string  `yaml:"participant,omitempty"`
	Mode        string  `yaml:"mode,omitempty" validate:"omitempty,oneof=tlx saq combined"`
	Events      []Event `yaml:"events" validate:"required,min=1,dive"`
}

// ChoicesDocument is a standalone set of pair choices for one instrument.
type ChoicesDocument struct {
	Instrument string            `yaml:"instrument" validate:"required,oneof=tlx saq TLX SAQ"`
	Choices    map[string]string `yaml:"choices" validate:"required"`
}

// decodeStrict decodes one YAML document into out, rejecting unknown
// fields, and validates it.
func decodeStrict(r io.Reader, out any) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("document is empty")
		}
		return fmt.Errorf("failed to decode (check for typos): %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ParseScript decodes and validates a session script.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := decodeStrict(bytes.NewReader(data), &script); err != nil {
		return nil, fmt.Errorf("invalid session script: %w", err)
	}
	return &script, nil
}

// LoadScript reads a session script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read session script: %w", err)
	}
	return ParseScript(data)
}

// LoadChoices reads a pair choices document from path.
func LoadChoices(path string) (*ChoicesDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read choices: %w", err)
	}
	var doc ChoicesDocument
	if err := decodeStrict(bytes.NewReader(data), &doc); err != nil {
		return nil, fmt.Errorf("invalid choices document: %w", err)
	}
	return &doc, nil
}

// InstrumentFor resolves an instrument name in any case.
func InstrumentFor(name string) (*schema.Instrument, error) {
	in, ok := schema.InstrumentByName(schema.InstrumentName(fold(name)))
	if !ok {
		return nil, fmt.Errorf("unknown instrument %q", name)
	}
	return in, nil
}

// SessionInfo returns the session identity of the script. Fields the script
// leaves empty are taken from defaults.
func (s *Script) SessionInfo(defaults schema.SessionInfo) schema.SessionInfo {
	info := defaults
	if s.Study != "" {
		info.Study = s.Study
	}
	if s.Participant != "" {
		info.Participant = s.Participant
	}
	if s.Mode != "" {
		info.Mode = schema.ScoringMode(s.Mode)
	}
	return info
}

// Replay applies the script events to session in order. It stops at the
// first failing event; events before it stay applied.
func Replay(ctx context.Context, session *Session, script *Script) error {
	for i, ev := range script.Events {
		if err := applyEvent(ctx, session, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Kind, err)
		}
	}
	return nil
}

func applyEvent(ctx context.Context, session *Session, ev Event) error {
	switch ev.Kind {
	case ReweightEvent:
		in, err := InstrumentFor(ev.Instrument)
		if err != nil {
			return err
		}
		_, err = session.Reweight(ctx, in, ev.Choices)
		return err
	case WeightsEvent:
		in, err := InstrumentFor(ev.Instrument)
		if err != nil {
			return err
		}
		weights, err := NormalizeWeights(in, ev.Weights)
		if err != nil {
			return err
		}
		return session.SetWeights(ctx, in, weights)
	case TaskEvent:
		ratings, err := NormalizeRatings(map[schema.InstrumentName]map[string]int{
			schema.TLXName: ev.TLX,
			schema.SAQName: ev.SAQ,
		})
		if err != nil {
			return err
		}
		_, err = session.Submit(ctx, ev.Name, ratings)
		return err
	case ResetEvent:
		session.Reset(ctx)
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
