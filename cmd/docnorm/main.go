// Command docnorm normalizes annotation files and raw text into documents and
// keeps them in a local store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/docnorm/internal/logger"
	"github.com/cognicore/docnorm/pkg/docnorm"
	"github.com/cognicore/docnorm/pkg/docnorm/config"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
	"github.com/cognicore/docnorm/pkg/docnorm/store/memstore"
	"github.com/cognicore/docnorm/pkg/docnorm/store/sqlite"
)

const version = "0.1.0"

type rootOptions struct {
	configPath  string
	dbPath      string
	taggerModel string
	stemDict    string
	debug       bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "docnorm",
		Short:         "Normalize annotated and raw-text documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides store.path; empty keeps documents in memory)")
	pf.StringVar(&opts.taggerModel, "tagger-model", "", "Sequence tagger model (overrides morphology.tagger_model)")
	pf.StringVar(&opts.stemDict, "stem-dict", "", "Stemmer root dictionary (overrides morphology.stem_dictionary)")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		corenlpCmd(opts),
		textCmd(opts),
		showCmd(opts),
		lsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "docnorm version %s\n", version)
			},
		},
	)
	return cmd
}

// openEngine wires config, logger, readers and store. The caller closes the
// engine and syncs the logger.
func openEngine(ctx context.Context, opts *rootOptions) (*docnorm.Engine, *zap.Logger, error) {
	debug := opts.debug
	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return nil, nil, err
		}
		debug = debug || cfg.Log.Debug
	}

	log, err := logger.New(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	loader := config.Loader{
		ConfigPath:         opts.configPath,
		TaggerModelPath:    opts.taggerModel,
		StemDictionaryPath: opts.stemDict,
		Logger:             log,
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = comp.Config.Store.Path
	}

	var st store.Store
	if dbPath == "" {
		st = memstore.New()
	} else {
		st, err = sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store %s: %w", dbPath, err)
		}
	}
	log.Debug("engine ready",
		zap.String("db", dbPath),
		zap.String("language", comp.Config.Language))

	return docnorm.New(docnorm.Options{
		Store:   st,
		CoreNLP: comp.CoreNLP,
		Raw:     comp.Raw,
		RawFor:  comp.RawReader,
		Logger:  log,
	}), log, nil
}

// withEngine runs fn against an opened engine and releases it afterwards.
func withEngine(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, e *docnorm.Engine) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, log, err := openEngine(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer e.Close()
	return fn(ctx, e)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
