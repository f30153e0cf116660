package backend

import (
	"os"
	"os/exec"
	"strings"
)

// AITool describes one coding-assistant CLI Thurbox can offer as a
// starting point when a role doesn't pin its own command, grounded on the
// teacher's internal/aiterminal/detect.go tool table and availability
// probing.
type AITool struct {
	Name        string
	Command     string
	Args        []string
	Description string
	Available   bool
}

// KnownAITools is the fixed catalog of coding-assistant CLIs Thurbox
// knows the name of. Unlike the teacher's editor-launcher use of this
// table, Thurbox never launches a bare shell as a fallback entry here —
// a role with no assistant configured just runs its own Command verbatim.
func KnownAITools() []AITool {
	tools := []AITool{
		{Name: "Claude Code", Command: "claude", Description: "Anthropic's Claude Code CLI"},
		{Name: "Gemini CLI", Command: "gemini", Description: "Google's Gemini CLI"},
		{Name: "Codex CLI", Command: "codex", Description: "OpenAI Codex CLI"},
		{Name: "OpenCode", Command: "opencode", Description: "OpenCode AI coding assistant"},
		{Name: "Aider", Command: "aider", Description: "AI pair programming in your terminal"},
	}
	for i := range tools {
		tools[i].Available = isCommandAvailable(tools[i].Command)
	}
	return tools
}

// AvailableAITools returns only the tools found on PATH.
func AvailableAITools() []AITool {
	all := KnownAITools()
	out := make([]AITool, 0, len(all))
	for _, t := range all {
		if t.Available {
			out = append(out, t)
		}
	}
	return out
}

func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// DefaultShell returns the user's login shell, used as the command for a
// role with no assistant and no explicit Command configured.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	for _, shell := range []string{"zsh", "bash", "sh"} {
		if isCommandAvailable(shell) {
			return shell
		}
	}
	return "sh"
}

// FormatToolLabel renders a tool for a selection menu, a check mark ahead
// of installed tools the way the teacher's FormatToolName does.
func (t AITool) FormatToolLabel() string {
	if t.Available {
		return "✓ " + t.Name
	}
	return "  " + t.Name
}

// matchesInstalledName reports whether s names one of the known tools,
// case-insensitively, for role-creation-modal lookups by free-typed name.
func matchesInstalledName(s string, tools []AITool) (AITool, bool) {
	for _, t := range tools {
		if strings.EqualFold(t.Name, s) || strings.EqualFold(t.Command, s) {
			return t, true
		}
	}
	return AITool{}, false
}
