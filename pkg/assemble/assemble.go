// Package assemble 将编译后的文本块组装为提示词文本或消息列表。
//
// 编译器只决定"哪些块、什么顺序"；本包是一个参考组装方式：
// 每个块带 [Title] 段标题，策略附在内容之后。
package assemble

import (
	"strings"

	"github.com/easyops/contextslots-go/pkg/core/message"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// DefaultSeparator 段落之间的默认分隔
const DefaultSeparator = "\n\n"

// DefaultStrategyLabel 策略行的默认标签
const DefaultStrategyLabel = "Strategy"

// Options 组装选项
type Options struct {
	// Separator 块之间的分隔符
	Separator string
	// StrategyLabel 策略前缀，为空时不输出策略
	StrategyLabel string
	// Headers 是否输出 [Title] 段标题
	Headers bool
}

// Option 配置组装选项
type Option func(*Options)

// WithSeparator 设置块之间的分隔符
func WithSeparator(sep string) Option {
	return func(o *Options) {
		o.Separator = sep
	}
}

// WithStrategyLabel 设置策略标签；传入空字符串将省略策略
func WithStrategyLabel(label string) Option {
	return func(o *Options) {
		o.StrategyLabel = label
	}
}

// WithoutHeaders 不输出段标题
func WithoutHeaders() Option {
	return func(o *Options) {
		o.Headers = false
	}
}

// DefaultOptions 返回默认组装选项
func DefaultOptions() Options {
	return Options{
		Separator:     DefaultSeparator,
		StrategyLabel: DefaultStrategyLabel,
		Headers:       true,
	}
}

// Text 按顺序将文本块组装为一段提示词。
func Text(blocks []slot.CompiledBlock, opts ...Option) string {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sections := make([]string, 0, len(blocks))
	for _, b := range blocks {
		sections = append(sections, section(b, o))
	}
	return strings.Join(sections, o.Separator)
}

func section(b slot.CompiledBlock, o Options) string {
	var sb strings.Builder
	if o.Headers && b.Title != "" {
		sb.WriteString("[")
		sb.WriteString(b.Title)
		sb.WriteString("]\n")
	}
	sb.WriteString(strings.TrimSpace(b.Content))
	if o.StrategyLabel != "" && strings.TrimSpace(b.Strategy) != "" {
		sb.WriteString("\n")
		sb.WriteString(o.StrategyLabel)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(b.Strategy))
	}
	return sb.String()
}

// SystemMessage 将文本块组装为一条系统消息。没有块时第二个返回值为 false。
func SystemMessage(blocks []slot.CompiledBlock, opts ...Option) (message.Message, bool) {
	if len(blocks) == 0 {
		return message.Message{}, false
	}
	return message.NewSystemMessage(Text(blocks, opts...)), true
}

// Messages 构建 [系统消息, 用户消息] 列表；任一部分为空则省略。
func Messages(blocks []slot.CompiledBlock, query string, opts ...Option) []message.Message {
	var messages []message.Message

	if system, ok := SystemMessage(blocks, opts...); ok {
		messages = append(messages, system)
	}
	if strings.TrimSpace(query) != "" {
		messages = append(messages, message.NewUserMessage(query))
	}

	return messages
}
