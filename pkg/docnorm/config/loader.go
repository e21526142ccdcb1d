package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/docnorm/pkg/docnorm/corenlp"
	"github.com/cognicore/docnorm/pkg/docnorm/engine/crf"
	"github.com/cognicore/docnorm/pkg/docnorm/engine/prose"
	"github.com/cognicore/docnorm/pkg/docnorm/engine/sastrawi"
	"github.com/cognicore/docnorm/pkg/docnorm/engine/tweet"
	"github.com/cognicore/docnorm/pkg/docnorm/rawtext"
)

// Loader loads the configuration file and the engine resources it names, and
// constructs the readers. Non-empty path fields override the file.
type Loader struct {
	ConfigPath         string
	TaggerModelPath    string
	StemDictionaryPath string
	Logger             *zap.Logger
}

// Components holds the loaded configuration and ready-to-use readers.
type Components struct {
	Config  *Config
	Raw     *rawtext.Reader
	CoreNLP *corenlp.Reader

	rawOpts []rawtext.Option
}

// Load reads all configured files and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := Load(l.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if l.TaggerModelPath != "" {
		cfg.Morphology.TaggerModel = l.TaggerModelPath
	}
	if l.StemDictionaryPath != "" {
		cfg.Morphology.StemDictionary = l.StemDictionaryPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []rawtext.Option{
		rawtext.WithProvider(prose.NewProvider()),
		rawtext.WithLogger(logger),
	}

	if cfg.Morphology.TaggerModel != "" {
		morph, err := loadMorphology(cfg.Morphology)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rawtext.WithStrategy(cfg.Morphology.Language, morph))
		logger.Debug("registered morphology strategy",
			zap.String("language", cfg.Morphology.Language),
			zap.String("tagger_model", cfg.Morphology.TaggerModel))
	}

	comp := &Components{
		Config: cfg,
		CoreNLP: corenlp.New(
			corenlp.WithLanguage(cfg.Language),
			corenlp.WithLogger(logger)),
		rawOpts: opts,
	}
	comp.Raw = comp.RawReader(cfg.Language)
	return comp, nil
}

// RawReader returns a raw-text reader for language that shares the loaded
// engines. An empty language means the configured default.
func (c *Components) RawReader(language string) *rawtext.Reader {
	if language == "" {
		language = c.Config.Language
	}
	return rawtext.New(language, c.rawOpts...)
}

func loadMorphology(m Morphology) (*rawtext.MorphologyStrategy, error) {
	tagger, err := crf.Open(m.TaggerModel)
	if err != nil {
		return nil, fmt.Errorf("load tagger model: %w", err)
	}

	dict := sastrawi.DefaultDictionary()
	if m.StemDictionary != "" {
		dict, err = sastrawi.LoadDictionary(m.StemDictionary)
		if err != nil {
			return nil, fmt.Errorf("load stem dictionary: %w", err)
		}
	}

	return &rawtext.MorphologyStrategy{
		Splitter:  prose.NewSegmenter(),
		Tokenizer: tweet.New(),
		Tagger:    tagger,
		Stemmer:   sastrawi.New(dict),
	}, nil
}
