package builtin

// TaskState 任务状态：关键进展与未决问题
type TaskState struct {
	// Goal 当前目标
	Goal string `json:"goal,omitempty" yaml:"goal,omitempty"`
	// Progress 已完成的关键进展
	Progress []string `json:"progress,omitempty" yaml:"progress,omitempty"`
	// OpenQuestions 未决问题
	OpenQuestions []string `json:"open_questions,omitempty" yaml:"open_questions,omitempty"`
	// NextStep 建议的下一步
	NextStep string `json:"next_step,omitempty" yaml:"next_step,omitempty"`
}

// IsZero 报告状态是否为空
func (s TaskState) IsZero() bool {
	return s.Goal == "" && len(s.Progress) == 0 && len(s.OpenQuestions) == 0 && s.NextStep == ""
}

// Evidence 一条事实证据
type Evidence struct {
	// Source 来源（文档名、URL 等）
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Content 证据内容
	Content string `json:"content" yaml:"content"`
	// Score 与查询的相关性分数（0.0-1.0）
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// OutputFormat 输出约束
type OutputFormat struct {
	// Format 输出格式，如 "markdown"、"json"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	// Instructions 额外的输出要求
	Instructions []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// RetrieveEvidenceParams retrieve_evidence 工具的参数
type RetrieveEvidenceParams struct {
	Query string `json:"query" desc:"The search query to find relevant documents" required:"true"`
	TopK  int    `json:"top_k" desc:"Number of results to return (default: 5)"`
}
