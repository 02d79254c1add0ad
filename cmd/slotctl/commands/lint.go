package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/easyops/contextslots-go/pkg/catalog"
	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slots/builtin"
)

// lintResult 是单个配方的检查结果
type lintResult struct {
	Recipe   string   `yaml:"recipe"`
	Errors   []string `yaml:"errors,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`
}

func newLintCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Check a recipe document against the built-in catalog",
		Long: `Check a recipe document: structure, slot references, presets and layout.

Errors make the command fail. Warnings do not: layout ids the recipe
does not expect, or a recipe that declares no slots.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.WrapError(err, "open recipe document")
			}
			defer f.Close()

			doc, err := recipe.ParseDocument(f)
			if err != nil {
				return err
			}

			c, err := builtin.NewCatalog()
			if err != nil {
				return err
			}
			results := lintDocument(c, doc)

			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if opts.output == outputYAML {
				if err := p.YAML(results); err != nil {
					return err
				}
			} else {
				printLint(p, results)
			}

			failed := 0
			for _, r := range results {
				if len(r.Errors) > 0 {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d recipes failed lint", failed, len(results))
			}
			return nil
		},
	}
}

// lintDocument 对照目录检查文档中的每个配方
func lintDocument(c *catalog.Catalog, doc *recipe.Document) []lintResult {
	results := make([]lintResult, 0, len(doc.Recipes))
	for _, spec := range doc.Recipes {
		result := lintResult{Recipe: spec.ID}

		if _, exists := c.Recipe(spec.ID); exists {
			result.Errors = append(result.Errors, errors.WithID(errors.ErrDuplicateRecipe, spec.ID).Error())
		}

		r, err := c.Resolve(spec)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			results = append(results, result)
			continue
		}

		if len(r.Expected()) == 0 {
			result.Warnings = append(result.Warnings, "recipe expects no slots")
		}
		if r.Layout != nil {
			expected := make(map[string]struct{}, len(r.Expected()))
			for _, id := range r.Expected() {
				expected[id] = struct{}{}
			}
			for _, id := range append(append([]string(nil), r.Layout.Head...), r.Layout.Tail...) {
				if _, ok := expected[id]; !ok {
					result.Warnings = append(result.Warnings, fmt.Sprintf("layout slot %q is not expected by the recipe", id))
				}
			}
		}

		results = append(results, result)
	}
	return results
}

func printLint(p *printer, results []lintResult) {
	for _, r := range results {
		switch {
		case len(r.Errors) > 0:
			p.Failure("%s", r.Recipe)
		case len(r.Warnings) > 0:
			p.Warning("%s", r.Recipe)
		default:
			p.Success("%s", r.Recipe)
		}
		for _, e := range r.Errors {
			p.Printf("    error: %s\n", e)
		}
		for _, w := range r.Warnings {
			p.Printf("    warning: %s\n", w)
		}
	}
}
