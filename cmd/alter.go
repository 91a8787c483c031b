package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"dbkeeper/internal/builder"
	"dbkeeper/internal/client"
	"dbkeeper/internal/schema"
)

// changeDocument is the file format of the alter command. Any section may
// be omitted; present sections run in field order.
type changeDocument struct {
	Alter      *schema.AlterTableSpec      `json:"alter,omitempty" yaml:"alter,omitempty" toml:"alter,omitempty"`
	Indexes    *schema.IndexAlterations    `json:"indexes,omitempty" yaml:"indexes,omitempty" toml:"indexes,omitempty"`
	Relations  *schema.RelationAlterations `json:"relations,omitempty" yaml:"relations,omitempty" toml:"relations,omitempty"`
	Partitions *schema.AlterPartitionsSpec `json:"partitions,omitempty" yaml:"partitions,omitempty" toml:"partitions,omitempty"`
}

// script renders every section without touching the database beyond
// reading current column definitions.
func (d changeDocument) script(ctx context.Context, c *client.SQLClient) ([]string, error) {
	var out []string
	b := builder.New(c.Dialect())
	add := func(sql string, err error) error {
		if err != nil {
			return err
		}
		if sql != "" {
			out = append(out, sql)
		}
		return nil
	}
	if d.Alter != nil {
		if err := add(c.AlterTableSQL(ctx, *d.Alter)); err != nil {
			return nil, err
		}
	}
	if d.Indexes != nil {
		if err := add(b.AlterIndexes(*d.Indexes)); err != nil {
			return nil, err
		}
	}
	if d.Relations != nil {
		if err := add(b.AlterRelations(*d.Relations)); err != nil {
			return nil, err
		}
	}
	if d.Partitions != nil {
		if err := add(b.AlterPartitions(*d.Partitions)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (d changeDocument) apply(ctx context.Context, c *client.SQLClient) error {
	if d.Alter != nil {
		log.Printf("Altering table %s...", d.Alter.Table)
		if err := c.AlterTable(ctx, *d.Alter); err != nil {
			return err
		}
	}
	if d.Indexes != nil {
		log.Printf("Altering indexes of %s...", d.Indexes.Table)
		if err := c.AlterIndexes(ctx, *d.Indexes); err != nil {
			return err
		}
	}
	if d.Relations != nil {
		log.Printf("Altering relations of %s...", d.Relations.Table)
		if err := c.AlterRelations(ctx, *d.Relations); err != nil {
			return err
		}
	}
	if d.Partitions != nil {
		log.Printf("Altering partitions of %s...", d.Partitions.Table)
		if err := c.AlterPartitions(ctx, *d.Partitions); err != nil {
			return err
		}
	}
	return nil
}

var alterDryRun bool

var alterCmd = &cobra.Command{
	Use:   "alter <changes.yaml|json|toml>",
	Short: "Apply column, index, relation and partition changes to a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc changeDocument
		if err := loadDocument(args[0], &doc); err != nil {
			return err
		}

		ctx := cmd.Context()
		c, _, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		if alterDryRun {
			scripts, err := doc.script(ctx, c)
			if err != nil {
				return err
			}
			if len(scripts) == 0 {
				log.Println("Nothing to change.")
			}
			for _, s := range scripts {
				fmt.Println(s)
			}
			return nil
		}
		if err := doc.apply(ctx, c); err != nil {
			return err
		}
		log.Println("Changes applied.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(alterCmd)
	alterCmd.Flags().BoolVar(&alterDryRun, "dry-run", false, "print the SQL instead of running it")
}
