package builtin

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/core/message"
	"github.com/easyops/contextslots-go/pkg/projection"
)

// Turn 是一次调用的源数据，通过 TurnProjections 投影到内置槽位。
//
// Evidence 为 nil 表示未做检索；指向空切片表示检索过但没有结果，
// 此时证据槽位仍被填充并暴露 retrieve_evidence 工具。
type Turn struct {
	Instructions string            `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Query        string            `json:"query" yaml:"query"`
	State        *TaskState        `json:"state,omitempty" yaml:"state,omitempty"`
	Evidence     *[]Evidence       `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	History      []message.Message `json:"history,omitempty" yaml:"history,omitempty"`
	Output       *OutputFormat     `json:"output,omitempty" yaml:"output,omitempty"`
}

// TurnProjections 将 Turn 投影到内置槽位；空字段跳过，证据只在未检索时跳过。
var TurnProjections = projection.Set[Turn]{
	projection.NonZero(Instructions, func(t Turn) string { return t.Instructions }),
	projection.NonZero(Task, func(t Turn) string { return t.Query }),
	projection.Pointer(State, func(t Turn) *TaskState { return t.State }),
	projection.Pointer(Output, func(t Turn) *OutputFormat { return t.Output }),
	projection.Pointer(EvidenceSlot, func(t Turn) *[]Evidence { return t.Evidence }),
	projection.NonEmpty(History, func(t Turn) []message.Message { return t.History }),
}

// LoadTurn 从 YAML 读取 Turn，并校验历史消息
func LoadTurn(r io.Reader) (*Turn, error) {
	var t Turn
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, errors.WrapError(err, "decode turn")
	}
	for i := range t.History {
		if err := t.History[i].Validate(); err != nil {
			return nil, errors.WrapError(err, fmt.Sprintf("turn history[%d]", i))
		}
	}
	return &t, nil
}
