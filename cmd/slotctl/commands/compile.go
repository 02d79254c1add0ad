package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/easyops/contextslots-go/pkg/assemble"
	"github.com/easyops/contextslots-go/pkg/core/config"
	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/otel"
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/slots/builtin"
	"github.com/easyops/contextslots-go/pkg/tools"
)

// compileOptions compile 子命令的选项
type compileOptions struct {
	recipeID  string
	turnPath  string
	document  string
	layers    []string
	report    bool
	withTools bool
}

// compileOutput 是 --output yaml 时的输出结构
type compileOutput struct {
	Recipe     string               `yaml:"recipe,omitempty"`
	Blocks     []slot.CompiledBlock `yaml:"blocks"`
	Report     *reportOutput        `yaml:"report,omitempty"`
	Validation *recipe.Validation   `yaml:"validation,omitempty"`
	Tools      []slot.CollectedTool `yaml:"tools,omitempty"`
}

type reportOutput struct {
	Considered int               `yaml:"considered"`
	Rendered   int               `yaml:"rendered"`
	Emitted    int               `yaml:"emitted"`
	Limit      string            `yaml:"limit,omitempty"`
	TokensUsed int               `yaml:"tokens_used"`
	Dropped    map[string]string `yaml:"dropped,omitempty"`
}

func newCompileCommand(opts *globalOptions) *cobra.Command {
	co := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile --turn <file>",
		Short: "Compile a turn file into prompt text",
		Long: `Fill the built-in slots from a turn file and compile them.

With --recipe the recipe preset and layout are used; without it the
compile section of the config applies. Output is the assembled prompt
text, or the compiled blocks with --output yaml.

Examples:
  slotctl compile --turn turn.yaml --recipe rag
  slotctl compile --turn turn.yaml --recipe chat --layers strategy --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, co)
		},
	}

	cmd.Flags().StringVarP(&co.turnPath, "turn", "t", "", "turn file (yaml)")
	cmd.Flags().StringVarP(&co.recipeID, "recipe", "r", "", "recipe id")
	cmd.Flags().StringVarP(&co.document, "recipes", "f", "", "recipe document to register before compiling")
	cmd.Flags().StringSliceVar(&co.layers, "layers", nil, "layers to render, overriding the preset (e.g. strategy)")
	cmd.Flags().BoolVar(&co.report, "report", false, "print the compile report")
	cmd.Flags().BoolVar(&co.withTools, "tools", false, "print the tools exposed by filled slots")
	cmd.MarkFlagRequired("turn")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *globalOptions, co *compileOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	provider, err := otel.NewProvider(ctx, cfg.Observability, otel.WithLogWriter(cmd.ErrOrStderr()))
	if err != nil {
		return errors.WrapError(err, "observability")
	}
	defer provider.Shutdown(ctx)

	c, err := loadCatalog(co.document)
	if err != nil {
		return err
	}

	turn, err := readTurn(co.turnPath)
	if err != nil {
		return err
	}
	bag := c.NewBag()
	filled := builtin.TurnProjections.Apply(bag, *turn)
	provider.Logger().Debug("turn loaded", "path", co.turnPath, "filled", filled)

	compileOpts, err := cfg.CompileOptions()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("layers") {
		compileOpts.Layers = co.layers
	}

	compiler := otel.NewTracedCompiler(otel.WithCompilerProvider(provider))
	out := compileOutput{Recipe: co.recipeID}
	var report slot.Report

	if co.recipeID != "" {
		r, ok := c.Recipe(co.recipeID)
		if !ok {
			return fmt.Errorf("%w: recipe %q not found", errors.ErrInvalidRecipe, co.recipeID)
		}
		overrides := &recipe.Overrides{TokenCounter: compileOpts.TokenCounter}
		if cmd.Flags().Changed("layers") {
			overrides.Layers = co.layers
		}
		var validation recipe.Validation
		out.Blocks, report, validation = compiler.CompileRecipe(ctx, bag, r, overrides)
		out.Validation = &validation
		compileOpts = r.Options(overrides)
	} else {
		out.Blocks, report = compiler.Compile(ctx, bag, compileOpts)
	}

	if co.report {
		out.Report = toReportOutput(report)
	}
	if co.withTools {
		out.Tools = compiler.CollectTools(ctx, bag, compileOpts)
	}

	p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if opts.output == outputYAML {
		return p.YAML(out)
	}
	printCompile(p, out)
	return nil
}

func readTurn(path string) (*builtin.Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, "open turn file")
	}
	defer f.Close()
	return builtin.LoadTurn(f)
}

func toReportOutput(r slot.Report) *reportOutput {
	out := &reportOutput{
		Considered: r.Considered,
		Rendered:   r.Rendered,
		Emitted:    r.Emitted,
		Limit:      r.Limit,
		TokensUsed: r.TokensUsed,
	}
	if len(r.Dropped) > 0 {
		out.Dropped = make(map[string]string, len(r.Dropped))
		for id, reason := range r.Dropped {
			out.Dropped[id] = string(reason)
		}
	}
	return out
}

func printCompile(p *printer, out compileOutput) {
	if out.Validation != nil && !out.Validation.Valid {
		if len(out.Validation.Missing) > 0 {
			p.Warning("recipe %s: missing %s", out.Recipe, joinOrDash(out.Validation.Missing))
		}
		if len(out.Validation.Unexpected) > 0 {
			p.Warning("recipe %s: unexpected %s", out.Recipe, joinOrDash(out.Validation.Unexpected))
		}
	}

	p.Printf("%s\n", assemble.Text(out.Blocks))

	if out.Report != nil {
		p.Printf("\n")
		p.Heading("report")
		p.Printf("  considered=%d rendered=%d emitted=%d tokens=%d limit=%s\n",
			out.Report.Considered, out.Report.Rendered, out.Report.Emitted,
			out.Report.TokensUsed, orDash(out.Report.Limit))
		ids := make([]string, 0, len(out.Report.Dropped))
		for id := range out.Report.Dropped {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			p.Printf("  dropped %s: %s\n", id, out.Report.Dropped[id])
		}
	}

	if len(out.Tools) > 0 {
		p.Printf("\n")
		p.Printf("%s", tools.DescribeDefinitions(slot.Definitions(out.Tools)))
	}

	if out.Validation != nil {
		p.Printf("\n")
		p.Success("coverage %.0f%%", out.Validation.Coverage*100)
	}
}
