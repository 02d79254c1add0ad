package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/easyops/contextslots-go/pkg/slots/builtin"
)

func newDescribeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "List the slots in the built-in catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := builtin.NewCatalog()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			infos := c.Describe()

			if opts.output == outputYAML {
				return p.YAML(infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			p.Heading("%d slots", len(infos))
			fmt.Fprintln(tw, "ID\tCATEGORY\tPRIORITY\tFIDELITIES\tSTRATEGY\tTOOLS\tVOLATILITY")
			for _, info := range infos {
				tools := "-"
				if info.HasTools {
					tools = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					info.ID,
					info.Category,
					info.Priority,
					joinOrDash(info.Fidelities),
					joinOrDash(info.StrategyFidelities),
					tools,
					orDash(info.Volatility),
				)
			}
			return tw.Flush()
		},
	}
}

func newRecipesCommand(opts *globalOptions) *cobra.Command {
	var document string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List the built-in recipes",
		Long: `List the built-in recipes. With --file, recipes from a recipe document
are registered on top of the built-ins first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(document)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			infos := c.DescribeRecipes()

			if opts.output == outputYAML {
				return p.YAML(infos)
			}

			for i, info := range infos {
				if i > 0 {
					p.Printf("\n")
				}
				p.Heading("%s (%s)", info.ID, info.Name)
				if info.Description != "" {
					p.Printf("  %s\n", info.Description)
				}
				p.Printf("  required: %s\n", joinOrDash(info.Required))
				p.Printf("  optional: %s\n", joinOrDash(info.Optional))
				if info.Layout != nil {
					p.Printf("  layout:   head=%s tail=%s\n", joinOrDash(info.Layout.Head), joinOrDash(info.Layout.Tail))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&document, "file", "f", "", "recipe document to register")
	return cmd
}
