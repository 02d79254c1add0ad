package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const turnYAML = `instructions: You are a careful assistant.
query: What changed in the release?
evidence:
  - source: changelog.md
    content: The release adds recipe documents.
    score: 0.9
history:
  - role: user
    content: hi
  - role: assistant
    content: hello
`

const recipesYAML = `version: "1"
recipes:
  - id: brief
    name: Brief
    required: [instructions, task]
    preset:
      max_slots: 2
    layout:
      tail: [task]
`

// run 执行命令并返回 stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand_ShowsHelp(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "slotctl")
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, err := run(t, "--unknown-flag", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	_, err := run(t, "describe", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestDescribe(t *testing.T) {
	out, err := run(t, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "6 slots")
	assert.Contains(t, out, "instructions")
	assert.Contains(t, out, "evidence")
}

func TestDescribe_YAML(t *testing.T) {
	out, err := run(t, "describe", "-o", "yaml")
	require.NoError(t, err)

	var infos []struct {
		ID       string `yaml:"id"`
		Priority int    `yaml:"priority"`
		HasTools bool   `yaml:"has_tools"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 6)
	assert.Equal(t, "instructions", infos[0].ID)
	assert.Equal(t, 100, infos[0].Priority)

	byID := map[string]bool{}
	for _, info := range infos {
		byID[info.ID] = info.HasTools
	}
	assert.True(t, byID["evidence"])
	assert.False(t, byID["task"])
}

func TestRecipes(t *testing.T) {
	out, err := run(t, "recipes")
	require.NoError(t, err)
	assert.Contains(t, out, "chat (Chat)")
	assert.Contains(t, out, "rag (Retrieval QA)")
	assert.Contains(t, out, "required: instructions,task,evidence")
}

func TestRecipes_WithDocument(t *testing.T) {
	path := writeFile(t, "recipes.yaml", recipesYAML)

	out, err := run(t, "recipes", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "brief (Brief)")
}

func TestLint(t *testing.T) {
	path := writeFile(t, "recipes.yaml", recipesYAML)

	out, err := run(t, "lint", path)
	require.NoError(t, err)
	assert.Contains(t, out, "brief")
	assert.NotContains(t, out, "error:")
}

func TestLint_Failures(t *testing.T) {
	path := writeFile(t, "recipes.yaml", `version: "1"
recipes:
  - id: chat
    required: [instructions]
  - id: broken
    required: [nope]
  - id: odd
    required: [task]
    layout:
      head: [instructions]
`)

	out, err := run(t, "lint", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 recipes failed lint")
	assert.Contains(t, out, "recipe already registered")
	assert.Contains(t, out, "slot not registered")
	assert.Contains(t, out, `layout slot "instructions" is not expected by the recipe`)
}

func TestLint_InvalidDocument(t *testing.T) {
	path := writeFile(t, "recipes.yaml", "version: \"2\"\nrecipes: []\n")

	_, err := run(t, "lint", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLint_RequiresFile(t *testing.T) {
	_, err := run(t, "lint")
	require.Error(t, err)
}

func TestCompile_Recipe(t *testing.T) {
	turn := writeFile(t, "turn.yaml", turnYAML)

	out, err := run(t, "compile", "--turn", turn, "--recipe", "rag", "--report")
	require.NoError(t, err)

	assert.Contains(t, out, "[Role & Policies]\nYou are a careful assistant.")
	assert.Contains(t, out, "[Task]\n用户问题：What changed in the release?")
	assert.Contains(t, out, "changelog.md")
	assert.Contains(t, out, "emitted=4")
	assert.Contains(t, out, "coverage 67%")

	// Head 置顶，Task 置底
	assert.Less(t, bytes.Index([]byte(out), []byte("[Role & Policies]")), bytes.Index([]byte(out), []byte("[Evidence]")))
	assert.Less(t, bytes.Index([]byte(out), []byte("[Context]")), bytes.Index([]byte(out), []byte("[Task]")))
}

func TestCompile_YAML(t *testing.T) {
	turn := writeFile(t, "turn.yaml", "query: hello\n")

	out, err := run(t, "compile", "-t", turn, "-r", "rag", "--tools", "-o", "yaml")
	require.NoError(t, err)

	var result struct {
		Blocks []struct {
			ID string `yaml:"id"`
		} `yaml:"blocks"`
		Validation struct {
			Valid   bool     `yaml:"valid"`
			Missing []string `yaml:"missing"`
		} `yaml:"validation"`
		Tools []struct {
			SlotID string `yaml:"slot_id"`
			Name   string `yaml:"name"`
		} `yaml:"tools"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))

	require.Len(t, result.Blocks, 1)
	assert.Equal(t, "task", result.Blocks[0].ID)
	assert.False(t, result.Validation.Valid)
	assert.Equal(t, []string{"instructions", "evidence"}, result.Validation.Missing)
	assert.Empty(t, result.Tools)
}

func TestCompile_EmptyEvidenceExposesRetrieveTool(t *testing.T) {
	turn := writeFile(t, "turn.yaml", "query: hello\nevidence: []\n")

	out, err := run(t, "compile", "-t", turn, "--tools")
	require.NoError(t, err)
	assert.Contains(t, out, "retrieve_evidence")

	turn = writeFile(t, "turn.yaml", "query: hello\n")
	out, err = run(t, "compile", "-t", turn, "--tools")
	require.NoError(t, err)
	assert.NotContains(t, out, "retrieve_evidence")
}

func TestCompile_ConfigDefaults(t *testing.T) {
	turn := writeFile(t, "turn.yaml", turnYAML)
	cfg := writeFile(t, "config.yaml", `compile:
  max_slots: 1
`)

	out, err := run(t, "compile", "-t", turn, "-c", cfg, "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "[Role & Policies]")
	assert.NotContains(t, out, "[Task]")
	assert.Contains(t, out, "limit=max_slots")
	assert.Contains(t, out, "dropped task: truncated")
}

func TestCompile_UnknownRecipe(t *testing.T) {
	turn := writeFile(t, "turn.yaml", "query: hello\n")

	_, err := run(t, "compile", "-t", turn, "-r", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `recipe "missing" not found`)
}

func TestCompile_RequiresTurn(t *testing.T) {
	_, err := run(t, "compile")
	require.Error(t, err)
}
