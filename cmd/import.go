package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbkeeper/internal/importer"
	"dbkeeper/internal/session"
)

var (
	importTable    string
	importSheet    string
	importNoHeader bool
	importMap      []string
	importPreview  int
)

// openParser picks a parser from the file extension.
func openParser(path string) (importer.Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return importer.NewCSV(f, importer.CSVOptions{Delimiter: delimiter(viper.GetString("import.delimiter")), NoHeader: importNoHeader}), nil
	case ".tsv":
		return importer.NewCSV(f, importer.CSVOptions{Delimiter: '\t', NoHeader: importNoHeader}), nil
	case ".json":
		return importer.NewJSON(f), nil
	case ".jsonl", ".ndjson":
		return importer.NewJSONL(f), nil
	case ".xlsx":
		defer f.Close()
		return importer.NewXLSX(f, importSheet)
	}
	f.Close()
	return nil, fmt.Errorf("%s: unsupported file type (csv, tsv, json, jsonl, xlsx)", path)
}

// parseMapping reads "file_column=table_column" pairs; an empty right side
// skips the file column.
func parseMapping(pairs []string) ([]importer.ColumnMapping, error) {
	var out []importer.ColumnMapping
	for _, p := range pairs {
		from, to, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("bad --map %q, want file_column=table_column", p)
		}
		out = append(out, importer.ColumnMapping{FileColumn: strings.TrimSpace(from), TableColumn: strings.TrimSpace(to)})
	}
	return out, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV, JSON, JSONL or XLSX file into a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := openParser(args[0])
		if err != nil {
			return err
		}

		if importPreview > 0 {
			defer p.Close()
			cols, rows, err := importer.Preview(ctx, p, importPreview)
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(cols, " | "))
			for _, r := range rows {
				cells := make([]string, len(r))
				for i, v := range r {
					cells[i] = fmt.Sprint(v)
				}
				fmt.Println(strings.Join(cells, " | "))
			}
			return nil
		}

		if importTable == "" {
			p.Close()
			return fmt.Errorf("--table is required")
		}
		mapping, err := parseMapping(importMap)
		if err != nil {
			p.Close()
			return err
		}

		c, cfg, err := openClient(ctx)
		if err != nil {
			p.Close()
			return err
		}
		defer c.Close()

		sess := session.New(ctx)
		defer sess.Close()
		release, err := sess.Locks().Acquire("import:" + importTable)
		if err != nil {
			p.Close()
			return err
		}
		defer release()

		uiprogress.Start()
		bar := newJobBar(importTable)
		im := importer.New(p, c, importer.Options{
			Table:         importTable,
			Schema:        cfg.Schema,
			Mapping:       mapping,
			Trim:          viper.GetBool("import.trim"),
			NullValues:    viper.GetStringSlice("import.null_values"),
			TruncateTable: viper.GetBool("import.truncate"),
			ChunkSize:     viper.GetInt("import.chunk_size"),
			OnProgress:    bar.update,
		})

		start := time.Now()
		if err := sess.Start(im); err != nil {
			uiprogress.Stop()
			return err
		}
		err = sess.Wait(ctx, im.ID())
		bar.done()
		uiprogress.Stop()

		printSummary(sess.List(), map[string]string{im.ID(): importTable})
		log.Printf("Import done! Time Elapsed: %s", time.Since(start))
		return err
	},
}

func init() {
	RootCmd.AddCommand(importCmd)

	flags := importCmd.Flags()
	flags.StringVarP(&importTable, "table", "t", "", "target table")
	flags.StringVar(&importSheet, "sheet", "", "worksheet to read (default: first)")
	flags.BoolVar(&importNoHeader, "no-header", false, "the CSV file has no header row")
	flags.StringSliceVar(&importMap, "map", nil, "column mapping file_column=table_column (repeatable)")
	flags.IntVar(&importPreview, "preview", 0, "print the first N parsed rows and exit")
	flags.Bool("trim", false, "trim whitespace around string cells")
	flags.StringSlice("null", nil, "cell values stored as NULL")
	flags.Bool("truncate", false, "empty the table first")
	flags.String("delimiter", "", "CSV delimiter")

	viper.BindPFlag("import.trim", flags.Lookup("trim"))
	viper.BindPFlag("import.null_values", flags.Lookup("null"))
	viper.BindPFlag("import.truncate", flags.Lookup("truncate"))
	viper.BindPFlag("import.delimiter", flags.Lookup("delimiter"))

	viper.SetDefault("import.chunk_size", 500)
	viper.SetDefault("import.delimiter", ",")
}
