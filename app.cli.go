package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Export formats supported by the export command.
const (
	FormatJSON    = "json"
	FormatParquet = "parquet"
)

type cliOptions struct {
	configFile string
	envFile    string
}

func (o *cliOptions) loadConfig() (*Config, error) {
	return LoadAndInitConfigs(o.configFile, o.envFile, GitCommit, GitTag, BuildTime)
}

// withCore opens the storage without the backup queue, runs fn then
// releases everything.
func (o *cliOptions) withCore(cmd *cobra.Command, configure func(*Config), fn func(*Core) error) (err error) {
	config, err := o.loadConfig()
	if err != nil {
		return err
	}
	if configure != nil {
		configure(config)
	}
	core, err := NewCore(cmd.Context(), config, false)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, core.Close())
	}()
	return fn(core)
}

// NewRootCmd builds the bookshelf command tree.
func NewRootCmd() *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Personal book collection tracker",
		Long: `Bookshelf keeps track of a personal book collection and reading progress.

It serves a JSON api and provides tools to export, import, seed
and summarize the collection straight from the configured storage.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "./config.yml", "yaml configuration file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", "./config.env", "environment variables file")

	cmd.AddCommand(
		newServeCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newListCmd(opts),
		newStatsCmd(opts),
		newSeedCmd(opts),
		newClearCmd(opts),
	)
	return cmd
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the api server",
		Long: `Starts the api server with the configured storage driver. An empty
collection is seeded first, unless the seed source is none.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("application failed to initialize: %w", err)
			}
			app, err := NewApp(cmd.Context(), config)
			if err != nil {
				return fmt.Errorf("application failed to initialize: %w", err)
			}
			return app.Run(cmd.Context())
		},
	}
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection",
		Example: `  # Export books and settings as json to the terminal
  bookshelf export

  # Export the books as a parquet file
  bookshelf export --format parquet --output books.parquet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != FormatJSON && format != FormatParquet {
				return fmt.Errorf("unsupported export format %q", format)
			}
			return opts.withCore(cmd, nil, func(core *Core) error {
				var out io.Writer = cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}

				if format == FormatParquet {
					return WriteBooksParquet(out, core.books.GetAllBooks())
				}
				data, ok := core.storage.ExportData(cmd.Context())
				if !ok {
					return errors.New("failed to export data")
				}
				_, err := out.Write(append(data, '\n'))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "destination file, - for standard output")
	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "export format: json or parquet")
	return cmd
}

func newImportCmd(opts *cliOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data into the collection",
		Long: `Imports an export document, a json array of books or a parquet file
of books. Arrays and parquet files replace the whole collection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withCore(cmd, nil, func(core *Core) error {
				if strings.EqualFold(filepath.Ext(input), ".parquet") {
					books, err := ReadBooksParquetFile(input)
					if err != nil {
						return err
					}
					n, err := core.books.ReplaceAll(cmd.Context(), books)
					if err != nil {
						return fmt.Errorf("failed to import books: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d books imported\n", n)
					return nil
				}

				data, err := os.ReadFile(input)
				if err != nil {
					return err
				}
				result := ImportDocument(cmd.Context(), core.books, data)
				if !result.Success {
					return errors.New(result.Message)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Message)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file to import (.json or .parquet)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newListCmd(opts *cliOptions) *cobra.Command {
	var status, genre, year, search, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the books of the collection",
		Example: `  # Books being read, best rated first
  bookshelf list --status reading --sort rating`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			for k, v := range map[string]string{"status": status, "genre": genre, "year": year, "search": search, "sort": sortKey} {
				if v != "" {
					q.Set(k, v)
				}
			}
			spec, err := ParseFilterSpec(q)
			if err != nil {
				return err
			}
			return opts.withCore(cmd, nil, func(core *Core) error {
				books := FilterBooks(core.books.GetAllBooks(), spec)
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE\tSTATUS\tRATING")
				for _, b := range books {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Year, b.Genre, b.Status, RatingLabel(b.Rating))
				}
				fmt.Fprintf(tw, "\n%d of %d books\n", len(books), len(core.books.GetAllBooks()))
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "toread, reading, read or all")
	cmd.Flags().StringVar(&genre, "genre", "", "genre or all")
	cmd.Flags().StringVar(&year, "year", "", "publication year or all")
	cmd.Flags().StringVarP(&search, "search", "s", "", "term matched on title, author, genre and description")
	cmd.Flags().StringVar(&sortKey, "sort", "", "date, title, year or rating")
	return cmd
}

func newStatsCmd(opts *cliOptions) *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the collection statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withCore(cmd, nil, func(core *Core) error {
				books := core.books.GetAllBooks()
				var v any = ComputeStatistics(books)
				if report {
					v = BuildReadingReport(books, core.storage.LoadUserSettings(cmd.Context()))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			})
		},
	}

	cmd.Flags().BoolVarP(&report, "report", "r", false, "print the reading report instead")
	return cmd
}

func newSeedCmd(opts *cliOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty collection",
		Long: `Populates the collection with the built-in books, or with the books
of the given file. A collection which already holds books is left as is.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configure := func(config *Config) {
				if file != "" {
					config.Seed = SeedConfig{Source: SeedSourceFile, FilePath: file}
				} else if config.Seed.Source == SeedSourceNone {
					config.Seed.Source = SeedSourceDefault
				}
			}
			return opts.withCore(cmd, configure, func(core *Core) error {
				n, err := core.Seed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d books seeded\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "json or parquet file of books")
	return cmd
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the books of the collection",
		Example: `  # Remove the books, keep the settings
  bookshelf clear

  # Remove the books and the settings
  bookshelf clear --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withCore(cmd, nil, func(core *Core) error {
				if all {
					if err := core.books.Reset(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "books and settings removed")
					return nil
				}
				if err := core.books.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "books removed")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "remove the user settings too")
	return cmd
}
