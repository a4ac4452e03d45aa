package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// InputPresentation is one defense to place, with its department already
// classified upstream.
type InputPresentation struct {
	Topic      string `json:"topic"`
	Student    string `json:"student"`
	Supervisor string `json:"supervisor"`
	Department string `json:"department"`
}

// InputConstraint marks a professor unavailable at the given slots.
type InputConstraint struct {
	Professor string      `json:"professor"`
	Slots     []time.Time `json:"slots"`
}

// InputDocument is the frozen picture a run consumes.
type InputDocument struct {
	Presentations []InputPresentation `json:"presentations"`
	// Professors lists jury-only candidates that supervise nothing.
	Professors     []string          `json:"professors,omitempty"`
	Unavailability []InputConstraint `json:"unavailability,omitempty"`
}

// LoadInput reads and validates the input document.
func LoadInput(path string) (*InputDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var doc InputDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	if len(doc.Presentations) == 0 {
		return nil, fmt.Errorf("input has no presentations")
	}
	for i, p := range doc.Presentations {
		if p.Supervisor == "" {
			return nil, fmt.Errorf("presentation %d (%q) has no supervisor", i, p.Topic)
		}
	}
	return &doc, nil
}

// Classifier builds the classify function injected into the engine from the
// pre-classified departments of the input document.
func (d *InputDocument) Classifier() func(topic string) string {
	byTopic := make(map[string]string, len(d.Presentations))
	for _, p := range d.Presentations {
		byTopic[p.Topic] = p.Department
	}
	return func(topic string) string {
		return byTopic[topic]
	}
}
