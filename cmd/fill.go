package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/importer"
	"dbkeeper/internal/job"
	"dbkeeper/internal/seed"
	"dbkeeper/internal/session"
)

var (
	fillCount  int
	fillClean  bool
	fillDryRun bool
	fillSeed   int64
	fillTables []string
)

// fillResult is one line of the final report.
type fillResult struct {
	table  string
	target int
	actual int64
	status string
	err    string
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the database with random data",
	Long: `Fill tables with generated rows.

Tables are filled parents first so foreign keys can point at rows that
already exist. Values follow column names and comments where they hint at a
meaning (email, phone, city, ...), otherwise the column type.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, cfg, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		targetCount := viper.GetInt("settings.default_count")
		if fillCount > 0 {
			targetCount = fillCount
		}

		log.Println("Analyzing schema...")
		plan, err := seed.Plan(ctx, c, cfg.Schema, targetTables(fillTables))
		if err != nil {
			return err
		}

		if fillDryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			fmt.Printf("🔍 Analysis Results:\n")
			for i, t := range plan {
				fmt.Printf("[%02d] %s (Dependencies: %v)\n", i+1, t.Name, t.Dependencies)
			}
			return nil
		}

		if fillClean {
			cleanTables(ctx, c, plan)
		}

		log.Printf("Starting fill with count=%d per table...", targetCount)
		start := time.Now()

		results := fill(ctx, c, plan, targetCount)
		verify(ctx, c, results, plan)

		fmt.Println("\n📊 Summary Report (Dependency Order):")
		var total int64
		for i, r := range results {
			icon := "✓"
			if r.status != "OK" {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(results), r.table, r.actual, r.target, r.status)
			if r.err != "" {
				fmt.Printf("    └ Error: %s\n", r.err)
			}
			total += r.actual
		}
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Total rows: %d\n", total)
		log.Printf("Fill done! Time Elapsed: %s", time.Since(start))
		return ctx.Err()
	},
}

// fill runs one generated import per table in plan order. A table that
// fails does not stop its siblings; children referencing it fall back to
// whatever keys already exist.
func fill(ctx context.Context, c *client.SQLClient, plan []seed.Table, count int) []fillResult {
	gen := seed.NewGenerator(fillSeed)
	pool := seed.NewPool()
	sess := session.New(ctx)
	defer sess.Close()

	uiprogress.Start()
	defer uiprogress.Stop()

	results := make([]fillResult, 0, len(plan))
	for _, t := range plan {
		if ctx.Err() != nil {
			break
		}
		for _, dep := range t.Dependencies {
			if len(pool.Values(dep)) > 0 {
				continue
			}
			for _, p := range plan {
				if p.Name == dep {
					if err := pool.Load(ctx, c, p, count); err != nil {
						log.Printf("Warning: %v", err)
					}
				}
			}
		}

		src := seed.NewSource(t, count, gen, pool)
		bar := newJobBar(t.Name)
		im := importer.New(src, c, importer.Options{
			Table:      t.Name,
			Schema:     t.Schema,
			ChunkSize:  viper.GetInt("settings.chunk_size"),
			Total:      int64(src.Target()),
			OnProgress: bar.update,
		})

		res := fillResult{table: t.Name, target: src.Target(), status: "OK"}
		if err := sess.Start(im); err != nil {
			res.status, res.err = "FAILED", err.Error()
			results = append(results, res)
			continue
		}
		if err := sess.Wait(ctx, im.ID()); err != nil {
			res.status, res.err = "FAILED", err.Error()
		}
		bar.done()
		res.actual = im.Snapshot().CountExported
		if im.Snapshot().Status == job.Aborted {
			res.status = "ABORTED"
		}

		if err := pool.Load(ctx, c, t, count); err != nil {
			log.Printf("Warning: %v", err)
		}
		results = append(results, res)
	}
	return results
}

// verify replaces the counted rows with what the table actually holds.
func verify(ctx context.Context, c *client.SQLClient, results []fillResult, plan []seed.Table) {
	d := dialect.Get(c.Dialect())
	for i := range results {
		t := plan[i]
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QualifiedName(t.Name, t.Schema))
		res, err := c.ExecuteQuery(ctx, q)
		if err != nil || len(res.Rows) == 0 || len(res.Rows[0]) == 0 {
			if results[i].status == "OK" {
				results[i].status = "UNVERIFIED"
			}
			continue
		}
		if n, ok := toInt64(res.Rows[0][0]); ok {
			results[i].actual = n
			if results[i].status == "OK" && n < int64(results[i].target) {
				results[i].status = "PARTIAL"
			}
		}
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		var out int64
		_, err := fmt.Sscan(string(n), &out)
		return out, err == nil
	case string:
		var out int64
		_, err := fmt.Sscan(n, &out)
		return out, err == nil
	}
	return 0, false
}

func init() {
	RootCmd.AddCommand(fillCmd)

	fillCmd.Flags().IntVar(&fillCount, "count", 0, "Number of records to generate per table (overrides config)")
	fillCmd.Flags().BoolVar(&fillClean, "clean", false, "Clean tables before filling")
	fillCmd.Flags().BoolVar(&fillDryRun, "dry-run", false, "Print the fill order without writing to DB")
	fillCmd.Flags().Int64Var(&fillSeed, "seed", 0, "Random seed (0 picks one)")
	fillCmd.Flags().StringSliceVarP(&fillTables, "tables", "t", []string{}, "Specific tables to fill (comma-separated)")

	viper.SetDefault("settings.default_count", 100)
}
