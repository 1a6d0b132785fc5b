package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookreviews/internal/config"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/importers"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// ImportBooksCommand loads the book catalog from a CSV file.
type ImportBooksCommand struct {
	CatalogPath string
	DatabaseURL string
	Verbose     bool
	DryRun      bool

	out io.Writer
}

func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{out: os.Stdout}
}

func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()

	fs := flag.NewFlagSet("import-books", flag.ContinueOnError)

	fs.StringVar(&cmd.CatalogPath, "file", config.DefaultCatalogPath, "Path to the catalog CSV (isbn,title,author,year)")
	fs.StringVar(&cmd.DatabaseURL, "db", cfg.Database.URL, "Database connection string (defaults to DATABASE_URL)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every book as it is queued")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the catalog without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load the book catalog from a CSV file with a header row and the columns\n")
		fmt.Fprintf(os.Stderr, "isbn,title,author,year. The whole file is inserted in one transaction.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Validate a catalog:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file books.csv -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Load into a local SQLite database:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -file books.csv -db ./bookreviews.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CatalogPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.DatabaseURL == "" && !cmd.DryRun {
		return fmt.Errorf("no database: set DATABASE_URL or pass -db")
	}

	return nil
}

func (cmd *ImportBooksCommand) Run(ctx context.Context) error {
	fmt.Fprintln(cmd.out, "Catalog Import")
	fmt.Fprintln(cmd.out, "==============")

	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.out)
	}

	file, err := os.Open(cmd.CatalogPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("catalog file not found: %s", cmd.CatalogPath)
		}
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(cmd.out, "File: %s\n", cmd.CatalogPath)

	log := logging.NewWithWriter(config.Log{Level: cmd.logLevel(), Format: "text"}, cmd.out)

	if cmd.DryRun {
		loader := importers.NewCatalogLoader(nil, log)
		prepared, err := loader.Prepare(file)
		if err != nil {
			return cmd.reportFailure(err)
		}
		if cmd.Verbose {
			fmt.Fprintln(cmd.out, "\n=== Books Found ===")
			for i, book := range prepared {
				fmt.Fprintf(cmd.out, "%d. %s \"%s\" by %s (%d)\n", i+1, book.ISBN, book.Title, book.Author, book.Year)
			}
		}
		fmt.Fprintf(cmd.out, "\n%d books are valid. Run without -dry-run to import.\n", len(prepared))
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabaseURL, database.WithLogLevel(logger.Silent), database.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	loader := importers.NewCatalogLoader(books.NewRepository(db.DB), log)
	inserted, err := loader.Load(ctx, file)
	if err != nil {
		return cmd.reportFailure(err)
	}

	fmt.Fprintln(cmd.out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.out, "Books added: %d\n", inserted)
	return nil
}

func (cmd *ImportBooksCommand) logLevel() string {
	if cmd.Verbose {
		return logrus.DebugLevel.String()
	}
	return logrus.InfoLevel.String()
}

func (cmd *ImportBooksCommand) reportFailure(err error) error {
	var catalogErr *importers.CatalogError
	if errors.As(err, &catalogErr) {
		fmt.Fprintf(cmd.out, "\n%d invalid rows, nothing was imported:\n", len(catalogErr.Problems))
		for _, problem := range catalogErr.Problems {
			fmt.Fprintf(cmd.out, "  [ERROR] %s\n", problem)
		}
	}
	return err
}
