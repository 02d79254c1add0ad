package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// printer 向命令的输出流写入彩色结果
//
// 颜色遵循 fatih/color 的终端检测与 NO_COLOR。
type printer struct {
	out io.Writer
	err io.Writer
}

func newPrinter(out, err io.Writer) *printer {
	return &printer{out: out, err: err}
}

// Success 绿色勾号行
func (p *printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning 黄色警告行
func (p *printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.out, "! %s\n", fmt.Sprintf(format, a...))
}

// Failure 红色失败行
func (p *printer) Failure(format string, a ...any) {
	red.Fprintf(p.out, "✗ %s\n", fmt.Sprintf(format, a...))
}

// Heading 青色标题行
func (p *printer) Heading(format string, a ...any) {
	cyan.Fprintf(p.out, "%s\n", fmt.Sprintf(format, a...))
}

// Printf 原样输出
func (p *printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Error 将命令错误输出到 stderr
func (p *printer) Error(err error) {
	red.Fprintf(p.err, "Error: %v\n", err)
}

// YAML 以 YAML 输出 v
func (p *printer) YAML(v any) error {
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
