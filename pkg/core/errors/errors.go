// Package errors 定义框架的通用错误类型
package errors

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	// ErrNotImplemented 功能未实现
	ErrNotImplemented = errors.New("not implemented")
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid configuration")
)

// 注册相关错误
//
// 目录在进程启动时组装一次，这些错误属于编程错误而非运行时状况。
var (
	// ErrDuplicateSlot 槽位 ID 重复注册
	ErrDuplicateSlot = errors.New("slot already registered")
	// ErrDuplicateRecipe 配方 ID 重复注册
	ErrDuplicateRecipe = errors.New("recipe already registered")
	// ErrUnknownSlot 引用了未注册的槽位
	ErrUnknownSlot = errors.New("slot not registered")
	// ErrInvalidSlot 槽位定义无效（如 ID 为空）
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrInvalidRecipe 配方定义无效（如 ID 为空）
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// 编译相关错误
var (
	// ErrConflictingLimits 同时设置了 MaxSlots 与 MaxTokens
	ErrConflictingLimits = errors.New("max_slots and max_tokens are mutually exclusive")
	// ErrUnknownEstimator 未知的 Token 估算器
	ErrUnknownEstimator = errors.New("unknown token estimator")
	// ErrInvalidTool 槽位生成的工具定义无效
	ErrInvalidTool = errors.New("invalid tool definition")
)

// 文档相关错误
var (
	// ErrInvalidDocument 配方文档无效
	ErrInvalidDocument = errors.New("invalid recipe document")
)

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// WithID 包装错误并附带出错对象的 ID
func WithID(err error, id string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %q", err, id)
}

// IsRegistration 判断错误是否为目录注册错误
func IsRegistration(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrDuplicateSlot) ||
		errors.Is(err, ErrDuplicateRecipe) ||
		errors.Is(err, ErrUnknownSlot) ||
		errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrInvalidRecipe)
}

// IsFatal 判断错误是否为致命错误（不可恢复）
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return IsRegistration(err) || errors.Is(err, ErrInvalidConfig)
}
