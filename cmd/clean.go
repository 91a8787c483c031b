package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dbkeeper/internal/client"
	"dbkeeper/internal/seed"
)

var cleanTablesFlag []string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean all data from tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, cfg, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		log.Println("Analyzing schema...")
		plan, err := seed.Plan(ctx, c, cfg.Schema, targetTables(cleanTablesFlag))
		if err != nil {
			return err
		}
		cleanTables(ctx, c, plan)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringSliceVarP(&cleanTablesFlag, "tables", "t", nil, "Specific tables to clean (comma-separated)")
}

// targetTables prefers the flag, then settings.tables; empty means all.
func targetTables(flag []string) []string {
	if len(flag) > 0 {
		return flag
	}
	return viper.GetStringSlice("settings.tables")
}

// cleanTables truncates tables children first. Failures are logged and
// skipped so one locked table does not stop the rest.
func cleanTables(ctx context.Context, c *client.SQLClient, plan []seed.Table) int {
	cleaned := 0
	total := len(plan)
	for i := len(plan) - 1; i >= 0; i-- {
		t := plan[i]
		if err := c.TruncateElement(ctx, t.Name, t.Schema); err != nil {
			log.Printf("Warning: Failed to clean %s: %v (continuing...)", t.Name, err)
			continue
		}
		cleaned++
		if done := total - i; done%5 == 0 || done == total {
			log.Printf("Cleaned %d/%d tables...", done, total)
		}
	}
	log.Printf("Cleaned %d of %d tables.", cleaned, total)
	return cleaned
}
