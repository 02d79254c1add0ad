// Package commands 实现 slotctl 命令行
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// 输出格式
const (
	outputText = "text"
	outputYAML = "yaml"
)

var versionInfo = "dev"

// globalOptions 所有子命令共享的选项
type globalOptions struct {
	configPath string
	output     string
}

func (o *globalOptions) validate() error {
	switch o.output {
	case outputText, outputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", o.output, outputText, outputYAML)
	}
}

// NewRootCommand 创建 slotctl 根命令
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "slotctl",
		Short: "Inspect and compile context slots",
		Long: `slotctl inspects the built-in slot catalog, lints recipe documents
and compiles a turn file into the prompt text a model would see.`,
		Version: versionInfo,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		SilenceErrors:      true,
		SilenceUsage:       true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or yaml")

	root.AddCommand(
		newDescribeCommand(opts),
		newRecipesCommand(opts),
		newLintCommand(opts),
		newCompileCommand(opts),
	)
	return root
}

// Execute 执行根命令，错误以彩色输出到 stderr
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		newPrinter(root.OutOrStdout(), root.ErrOrStderr()).Error(err)
		return err
	}
	return nil
}

// SetVersionInfo 设置版本信息
func SetVersionInfo(version, commit string) {
	versionInfo = fmt.Sprintf("%s (commit: %s)", version, commit)
}
