// Package crf implements a linear-chain conditional random field sequence
// tagger. Models are plain weight tables trained offline and stored as YAML
// (or JSON, which the YAML decoder also accepts).
package crf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// Model holds the learned weights of a linear-chain CRF.
//
// Expected format:
//
//	labels: [NN, VB, PRP, Z]
//	transitions:
//	  PRP: {VB: 1.2}
//	  VB: {NN: 0.9}
//	state:
//	  WORD_makan: {VB: 3.1}
//	  SUF_an: {NN: 0.4}
//	  PUNCTUATION: {Z: 4.0}
//
// transitions[a][b] scores label b following label a; state[f][l] scores
// label l for a token that fires feature f. Missing entries weigh zero.
type Model struct {
	Labels      []string                      `yaml:"labels" json:"labels"`
	Transitions map[string]map[string]float64 `yaml:"transitions" json:"transitions"`
	State       map[string]map[string]float64 `yaml:"state" json:"state"`
}

// LoadModel reads a model file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("load tagger model %s: %w", path, internalerr.ErrNotFound)
		}
		return nil, fmt.Errorf("load tagger model %s: %w", path, err)
	}

	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &internalerr.ParseError{Source: path, Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("load tagger model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the model is usable for decoding.
func (m *Model) Validate() error {
	if len(m.Labels) == 0 {
		return fmt.Errorf("%w: model has no labels", internalerr.ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(m.Labels))
	for _, l := range m.Labels {
		if l == "" {
			return fmt.Errorf("%w: empty label", internalerr.ErrInvalidConfig)
		}
		if _, dup := seen[l]; dup {
			return fmt.Errorf("%w: duplicate label %q", internalerr.ErrInvalidConfig, l)
		}
		seen[l] = struct{}{}
	}
	for from, row := range m.Transitions {
		if _, ok := seen[from]; !ok {
			return fmt.Errorf("%w: transition from unknown label %q", internalerr.ErrInvalidConfig, from)
		}
		for to := range row {
			if _, ok := seen[to]; !ok {
				return fmt.Errorf("%w: transition to unknown label %q", internalerr.ErrInvalidConfig, to)
			}
		}
	}
	for feat, row := range m.State {
		for l := range row {
			if _, ok := seen[l]; !ok {
				return fmt.Errorf("%w: feature %q weighs unknown label %q", internalerr.ErrInvalidConfig, feat, l)
			}
		}
	}
	return nil
}
