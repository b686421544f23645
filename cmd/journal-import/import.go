// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/journal-import/internal/importer"
	"github.com/pdiddy/journal-import/internal/report"
)

var importCmd = &cobra.Command{
	Use:   "import <journal-path> <username> <editor-username> <default-email> <source-dir>",
	Short: "Import a volume/issue/article tree of PDFs into a journal",
	Long: `Import walks source-dir, whose subdirectories are volumes containing
issue directories containing article PDFs. Each level is processed in
natural order ("2" before "10"). Every PDF is sent to GROBID for header
extraction and becomes one published article of the journal, with its
authors, an editor stage assignment, a PDF galley and a copy of the file.

All authors get default-email. The importing user uploads the files and the
editor user is assigned to the production stage.

Articles that fail are reported and skipped; the command exits with status
1 when any article failed.`,
	Args: exactArgs(5),
	RunE: runImport,
}

// exactArgs requires n non-empty positional arguments.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("requires exactly %d arguments, received %d", n, len(args))
		}
		for i, a := range args {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("argument %d is empty", i+1)
			}
		}
		return nil
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	im := importer.New(store, newGrobidClient(cfg.Grobid),
		importer.WithConfig(cfg.Import),
		importer.WithWriter(os.Stdout),
		importer.WithLogger(logger),
	)

	summary, err := im.Run(ctx, importer.Request{
		JournalPath:    args[0],
		Username:       args[1],
		EditorUsername: args[2],
		DefaultEmail:   args[3],
		SourceDir:      args[4],
	})
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := report.WriteXLSX(path, summary); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "report written to %s\n", path)
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d article(s) failed, %d error(s) recorded", summary.Failed, len(summary.Errors))
	}
	return nil
}

func init() {
	importCmd.Flags().String("report", "", "write an XLSX report of the run to this file")

	rootCmd.AddCommand(importCmd)
}
