// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/journal-import/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the archive (init, seed, articles)",
	Long: `Archive manages the local SQLite archive that imports write into.
Use subcommands to create it, load journals and accounts from a fixture,
or list imported articles.`,
}

// --- init subcommand ---

var archiveInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the archive database and schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openArchive(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Printf("archive ready at %s\n", cfg.Archive.DBPath)
		return nil
	},
}

// --- seed subcommand ---

var archiveSeedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load journals, sections, genres, user groups and users from YAML",
	Long: `Seed reads a YAML fixture and writes its journals (with their sections,
genres and user groups) and users into the archive. Records are matched by
journal path, section abbreviation, genre key, group name and username, so
seeding again updates them in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fixture, err := archive.LoadFixture(args[0])
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openArchive(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sum, err := store.Seed(cmd.Context(), fixture)
		if err != nil {
			return err
		}
		fmt.Printf("journals: %d, sections: %d, genres: %d, user groups: %d, users: %d\n",
			sum.Journals, sum.Sections, sum.Genres, sum.UserGroups, sum.Users)
		return nil
	},
}

// --- articles subcommand ---

var archiveArticlesCmd = &cobra.Command{
	Use:   "articles <journal-path>",
	Short: "List the articles of a journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openArchive(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		journal, err := store.JournalByPath(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		list, err := store.Articles(cmd.Context(), journal.ID)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		return formatArticles(list, jsonOutput)
	},
}

func formatArticles(list []archive.ArticleSummary, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-19s  %-7s  %-6s  %s\n", "ID", "Published", "Authors", "Galley", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, a := range list {
		title := a.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-19s  %-7d  %-6d  %s\n",
			a.ID, a.DatePublished, a.Authors, a.Representations, title)
	}
	fmt.Fprintf(os.Stdout, "\n%d articles\n", len(list))
	return nil
}

func init() {
	archiveArticlesCmd.Flags().Bool("json", false, "output articles as JSON")

	archiveCmd.AddCommand(archiveInitCmd)
	archiveCmd.AddCommand(archiveSeedCmd)
	archiveCmd.AddCommand(archiveArticlesCmd)

	rootCmd.AddCommand(archiveCmd)
}
