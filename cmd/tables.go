package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	showColumns bool
	showViews   bool
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables, optionally with their columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, cfg, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		tables, err := c.ListTables(ctx, cfg.Schema)
		if err != nil {
			return err
		}
		if showViews {
			views, err := c.ListViews(ctx, cfg.Schema)
			if err != nil {
				return err
			}
			tables = append(tables, views...)
		}

		for i, t := range tables {
			fmt.Printf("[%02d] %-30s %s\n", i+1, t.Name, t.Entity)
			if !showColumns {
				continue
			}
			cols, err := c.ListTableColumns(ctx, t.Name, t.Schema)
			if err != nil {
				return err
			}
			for _, col := range cols {
				null := "NOT NULL"
				if col.Nullable {
					null = "NULL"
				}
				def := ""
				if col.DefaultValue != nil {
					def = "DEFAULT " + *col.DefaultValue
				}
				fmt.Printf("     %-28s %-20s %-8s %s\n", col.Name, col.DataType, null, def)
			}
		}
		f := c.SupportedFeatures()
		fmt.Printf("\n%d objects. transactions=%v comments=%v partitions=%v\n", len(tables), f.Transactions, f.Comments, f.Partitions)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().BoolVarP(&showColumns, "columns", "c", false, "print the columns of each table")
	tablesCmd.Flags().BoolVar(&showViews, "views", false, "include views")
}
