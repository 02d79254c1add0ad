// Package message 定义对话消息类型：既是历史槽位的数据，也是组装后的输出形式。
package message

import (
	"strings"
	"time"
)

// Role 表示消息的角色类型
type Role string

const (
	// RoleSystem 系统消息
	RoleSystem Role = "system"
	// RoleUser 用户消息
	RoleUser Role = "user"
	// RoleAssistant AI 助手消息
	RoleAssistant Role = "assistant"
	// RoleTool 工具调用结果消息
	RoleTool Role = "tool"
)

// IsValid 检查 Role 是否为有效值
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// Message 表示对话中的一条消息
type Message struct {
	// Role 消息角色
	Role Role `json:"role" yaml:"role"`
	// Content 消息内容
	Content string `json:"content" yaml:"content"`
	// Name 名称（当 Role=tool 时为工具名称）
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// ToolCallID 对应的工具调用 ID（当 Role=tool 时）
	ToolCallID string `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty"`
	// Timestamp 时间戳
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// NewMessage 创建新消息
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage 创建系统消息
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage 创建用户消息
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage 创建助手消息
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewToolMessage 创建工具结果消息
func NewToolMessage(toolCallID, name, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		Name:       name,
		ToolCallID: toolCallID,
		Timestamp:  time.Now(),
	}
}

// Validate 验证消息是否有效
func (m *Message) Validate() error {
	if !m.Role.IsValid() {
		return ErrInvalidRole
	}
	if strings.TrimSpace(m.Content) == "" {
		return ErrEmptyContent
	}
	// 当 Role=tool 时，ToolCallID 必须非空
	if m.Role == RoleTool && m.ToolCallID == "" {
		return ErrMissingToolCallID
	}
	return nil
}

// Line 返回 "role: content" 形式的单行文本，工具消息带上工具名。
func (m *Message) Line() string {
	role := string(m.Role)
	if m.Role == RoleTool && m.Name != "" {
		role += "(" + m.Name + ")"
	}
	return role + ": " + strings.TrimSpace(m.Content)
}

// Transcript 将消息逐行拼接为对话记录。
func Transcript(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for i := range messages {
		lines = append(lines, messages[i].Line())
	}
	return strings.Join(lines, "\n")
}

// Last 返回最后 n 条消息；n <= 0 时返回空。
func Last(messages []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
