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
	"golang.org/x/sync/errgroup"

	"dbkeeper/internal/client"
	"dbkeeper/internal/export"
	"dbkeeper/internal/session"
)

var (
	exportQuery      string
	exportOut        string
	exportWithCreate bool
)

var exportCmd = &cobra.Command{
	Use:   "export [tables...]",
	Short: "Export tables or a query to CSV, JSON, JSONL or SQL files",
	Long: `Export tables or a query to files.

Without table arguments every table in the schema is exported, several at a
time (export.concurrency). With --query a single file is written to --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, cfg, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		format := export.Format(viper.GetString("export.format"))
		opts := export.FormatOptions{
			Header:    viper.GetBool("export.header"),
			Delimiter: delimiter(viper.GetString("export.delimiter")),
			Pretty:    viper.GetBool("export.pretty"),
			Dialect:   c.Dialect(),
			Schema:    cfg.Schema,
		}

		sess := session.New(ctx)
		defer sess.Close()
		names := make(map[string]string)

		start := time.Now()
		uiprogress.Start()

		if exportQuery != "" {
			if exportOut == "" || strings.HasSuffix(exportOut, string(os.PathSeparator)) {
				uiprogress.Stop()
				return fmt.Errorf("--out must name a file when exporting a query")
			}
			opts.Table = "query"
			f, err := export.NewFormatter(format, opts)
			if err != nil {
				uiprogress.Stop()
				return err
			}
			bar := newJobBar("query")
			e := export.New(export.QuerySource(c, exportQuery, viper.GetInt("settings.chunk_size")), f, export.Options{
				Path:          exportOut,
				Dialect:       c.Dialect(),
				DeleteOnAbort: viper.GetBool("export.delete_on_abort"),
				OnProgress:    bar.update,
			})
			names[e.ID()] = "query"
			if err := sess.Start(e); err != nil {
				uiprogress.Stop()
				return err
			}
			err = sess.Wait(ctx, e.ID())
			bar.done()
			uiprogress.Stop()
			printSummary(sess.List(), names)
			return err
		}

		tables := args
		if len(tables) == 0 {
			list, err := c.ListTables(ctx, cfg.Schema)
			if err != nil {
				uiprogress.Stop()
				return err
			}
			for _, t := range list {
				tables = append(tables, t.Name)
			}
		}

		dir := exportOut
		if dir == "" {
			dir = viper.GetString("export.dir")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			uiprogress.Stop()
			return fmt.Errorf("create output dir: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(1, viper.GetInt("export.concurrency")))
		for _, table := range tables {
			release, err := sess.Locks().Acquire("export:" + table)
			if err != nil {
				log.Printf("Skipping %s: %v", table, err)
				continue
			}

			topts := opts
			topts.Table = table
			if exportWithCreate && format == export.FormatSQL {
				script, err := c.GetTableCreateScript(ctx, table, cfg.Schema)
				if err != nil {
					log.Printf("Warning: no create script for %s: %v", table, err)
				}
				topts.CreateScript = script
			}
			f, err := export.NewFormatter(format, topts)
			if err != nil {
				release()
				uiprogress.Stop()
				return err
			}

			bar := newJobBar(table)
			e := export.New(export.TableSource(c, client.StreamOptions{
				Table:     table,
				Schema:    cfg.Schema,
				ChunkSize: viper.GetInt("settings.chunk_size"),
			}), f, export.Options{
				Path:          filepath.Join(dir, table+"."+f.Extension()),
				Dialect:       c.Dialect(),
				DeleteOnAbort: viper.GetBool("export.delete_on_abort"),
				OnProgress:    bar.update,
			})
			names[e.ID()] = table

			g.Go(func() error {
				defer release()
				if err := sess.Start(e); err != nil {
					return err
				}
				err := sess.Wait(gctx, e.ID())
				bar.done()
				return err
			})
		}
		err = g.Wait()
		uiprogress.Stop()

		printSummary(sess.List(), names)
		log.Printf("Export done! Time Elapsed: %s", time.Since(start))
		if ctx.Err() != nil {
			return fmt.Errorf("export interrupted: %w", ctx.Err())
		}
		return err
	},
}

// delimiter takes the first rune of s, with "\t" spelled out for configs.
func delimiter(s string) rune {
	if s == `\t` || s == "tab" {
		return '\t'
	}
	for _, r := range s {
		return r
	}
	return ','
}

func init() {
	RootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.StringP("format", "f", "", "csv, json, jsonl or sql")
	flags.StringVarP(&exportOut, "out", "o", "", "output directory, or file with --query")
	flags.StringVarP(&exportQuery, "query", "q", "", "export the result of this query")
	flags.BoolVar(&exportWithCreate, "with-create", false, "prefix SQL exports with the table's create script")
	flags.Int("concurrency", 0, "tables exported at once")
	flags.Bool("keep-partial", false, "keep the partial file when an export is aborted")

	viper.BindPFlag("export.format", flags.Lookup("format"))
	viper.BindPFlag("export.concurrency", flags.Lookup("concurrency"))

	viper.SetDefault("export.format", "csv")
	viper.SetDefault("export.dir", ".")
	viper.SetDefault("export.header", true)
	viper.SetDefault("export.delimiter", ",")
	viper.SetDefault("export.concurrency", 4)
	viper.SetDefault("export.delete_on_abort", true)

	exportCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if keep, _ := cmd.Flags().GetBool("keep-partial"); keep {
			viper.Set("export.delete_on_abort", false)
		}
	}
}
