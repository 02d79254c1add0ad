// Package tokens 提供槽位编译使用的 Token 估算器。
//
// 编译器只依赖 Counter 接口；默认估算为 ceil(字符数 / 2)，
// 需要精确计数时可替换为基于 tiktoken 的实现。
package tokens

import (
	"math"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter 定义 Token 计数接口。
type Counter interface {
	// Count 返回给定文本的 Token 数量。
	Count(text string) int
}

// CounterFunc 将普通函数适配为 Counter。
type CounterFunc func(text string) int

// Count 调用函数本身。
func (f CounterFunc) Count(text string) int {
	return f(text)
}

// DefaultCharsPerToken 是默认估算器的每 Token 字符数。
const DefaultCharsPerToken = 2.0

// EstimatedCounter 使用字符估算实现 Token 计数。
// 结果向上取整，因此任意非空文本至少计为 1 个 Token。
type EstimatedCounter struct {
	// CharsPerToken 是每个 Token 的平均字符数。
	// 默认值为 2。
	CharsPerToken float64
}

// NewEstimatedCounter 创建新的 EstimatedCounter。
func NewEstimatedCounter() *EstimatedCounter {
	return &EstimatedCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// Count 返回估算的 Token 数量。
// 字符数按 Unicode 码点计算，而不是字节数。
func (c *EstimatedCounter) Count(text string) int {
	per := c.CharsPerToken
	if per <= 0 {
		per = DefaultCharsPerToken
	}
	chars := utf8.RuneCountInString(text)
	if chars == 0 {
		return 0
	}
	return int(math.Ceil(float64(chars) / per))
}

// TiktokenCounter 使用 tiktoken 实现精确的 Token 计数。
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
}

// TiktokenOption 配置 TiktokenCounter。
type TiktokenOption func(*TiktokenCounter)

// WithModel 设置 Token 编码使用的模型。
// 支持的模型：gpt-4、gpt-4o、gpt-3.5-turbo 等。
func WithModel(model string) TiktokenOption {
	return func(c *TiktokenCounter) {
		if model != "" {
			c.model = model
		}
	}
}

// NewTiktokenCounter 创建新的 TiktokenCounter。
// 模型未知时降级到 cl100k_base 编码。
func NewTiktokenCounter(opts ...TiktokenOption) (*TiktokenCounter, error) {
	c := &TiktokenCounter{
		model: "gpt-4o",
	}

	for _, opt := range opts {
		opt(c)
	}

	encoding, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encoding = encoding
	return c, nil
}

// Model 返回编码对应的模型名称。
func (c *TiktokenCounter) Model() string {
	return c.model
}

// Count 返回给定文本的 Token 数量。
func (c *TiktokenCounter) Count(text string) int {
	if c.encoding == nil {
		return Default().Count(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

var defaultCounter Counter = NewEstimatedCounter()

// Default 返回编译器的默认估算器：ceil(字符数 / 2)。
func Default() Counter {
	return defaultCounter
}

// OrDefault 在 c 为 nil 时返回默认估算器。
func OrDefault(c Counter) Counter {
	if c == nil {
		return defaultCounter
	}
	return c
}

// 编译时接口检查
var _ Counter = (*TiktokenCounter)(nil)
var _ Counter = (*EstimatedCounter)(nil)
var _ Counter = CounterFunc(nil)
