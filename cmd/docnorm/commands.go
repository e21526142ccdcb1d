package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cognicore/docnorm/internal/textsrc"
	"github.com/cognicore/docnorm/pkg/docnorm"
	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
)

func corenlpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "corenlp FILE|GLOB...",
		Short: "Read CoreNLP XML annotation files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandInputs(args)
			if err != nil {
				return err
			}
			return withEngine(cmd, opts, func(ctx context.Context, e *docnorm.Engine) error {
				docs := make([]*document.Document, 0, len(paths))
				for _, path := range paths {
					doc, err := e.IngestFile(ctx, path)
					if err != nil {
						return err
					}
					docs = append(docs, doc)
				}
				return writeJSON(cmd.OutOrStdout(), docs)
			})
		},
	}
}

func textCmd(opts *rootOptions) *cobra.Command {
	var (
		lang      string
		maxLength int
		encoding  string
		asHTML    bool
	)

	cmd := &cobra.Command{
		Use:   "text FILE|GLOB...",
		Short: "Normalize raw text files (\"-\" reads stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := docnorm.TextRequest{Language: lang, MaxLength: maxLength}
			src := textsrc.Options{Encoding: encoding, HTML: asHTML}
			paths, err := expandInputs(args)
			if err != nil {
				return err
			}

			return withEngine(cmd, opts, func(ctx context.Context, e *docnorm.Engine) error {
				docs := make([]*document.Document, 0, len(paths))
				for _, path := range paths {
					var doc *document.Document
					var err error
					if path == "-" {
						doc, err = ingestStdin(ctx, e, cmd.InOrStdin(), req, src)
					} else {
						doc, err = e.IngestTextFile(ctx, path, req, src)
					}
					if err != nil {
						return err
					}
					docs = append(docs, doc)
				}
				return writeJSON(cmd.OutOrStdout(), docs)
			})
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language code (default from config, \"en\" otherwise)")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Generic pipeline input limit in characters (0 = default)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Input encoding label (empty = detect)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Treat input as HTML and strip markup")
	return cmd
}

func ingestStdin(ctx context.Context, e *docnorm.Engine, in io.Reader, req docnorm.TextRequest, src textsrc.Options) (*document.Document, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	text, err := textsrc.Decode(data, src.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if src.HTML {
		text = textsrc.StripHTML(text)
	}
	return e.IngestText(ctx, text, req)
}

func showCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(ctx context.Context, e *docnorm.Engine) error {
				doc, err := e.Document(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			})
		},
	}
}

func lsCmd(opts *rootOptions) *cobra.Command {
	var (
		lo     store.ListOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, opts, func(ctx context.Context, e *docnorm.Engine) error {
				list, err := e.Documents(ctx, lo)
				if err != nil {
					return err
				}
				switch format {
				case "json":
					return writeJSON(cmd.OutOrStdout(), list)
				case "table":
					writeTable(cmd.OutOrStdout(), list)
					return nil
				default:
					return fmt.Errorf("%w: unknown format %q", internalerr.ErrInvalidInput, format)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&lo.Language, "lang", "l", "", "Only documents in this language")
	cmd.Flags().StringVar(&lo.InputFile, "input", "", "Only documents read from this input file")
	cmd.Flags().IntVar(&lo.Limit, "limit", 0, "Maximum number of documents (0 = all)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, table)")
	return cmd
}

func writeTable(w io.Writer, list []store.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Language", "Sentences", "Tokens", "Created", "Input"})
	for _, s := range list {
		t.AppendRow(table.Row{s.ID, s.Language, s.Sentences, s.Tokens, s.CreatedAt.Format(time.RFC3339), s.InputFile})
	}
	t.Render()
}
