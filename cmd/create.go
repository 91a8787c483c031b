package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"dbkeeper/internal/builder"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

var (
	createExecute bool
	createDialect string
)

var createCmd = &cobra.Command{
	Use:   "create <table.yaml|json|toml>",
	Short: "Generate (and optionally run) a CREATE TABLE script",
	Long: `Generate a CREATE TABLE script from a table document.

Without --execute no connection is needed when --dialect is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var spec schema.Schema
		if err := loadDocument(args[0], &spec); err != nil {
			return err
		}

		if !createExecute && createDialect != "" {
			d, ok := dialect.Parse(createDialect)
			if !ok {
				return fmt.Errorf("unknown dialect %q", createDialect)
			}
			script, err := builder.NewGenerator(d).BuildSQL(spec)
			if err != nil {
				return err
			}
			fmt.Println(script)
			return nil
		}

		ctx := cmd.Context()
		c, _, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		if !createExecute {
			script, err := c.CreateTableSQL(spec)
			if err != nil {
				return err
			}
			fmt.Println(script)
			return nil
		}
		if err := c.CreateTable(ctx, spec); err != nil {
			return err
		}
		log.Printf("Table %s created.", spec.Name)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(createCmd)
	createCmd.Flags().BoolVar(&createExecute, "execute", false, "run the script against the database")
	createCmd.Flags().StringVar(&createDialect, "dialect", "", "render for this dialect without connecting")
}
