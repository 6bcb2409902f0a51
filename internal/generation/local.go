package generation

import (
	"context"
	"strings"
)

// LocalProvider composes a deterministic answer from the retrieved
// excerpts alone. It has no external dependencies and never fails, so
// it serves as the terminal fallback when the remote provider is
// unreachable or unconfigured.
type LocalProvider struct{}

// NewLocalProvider creates the template-based provider.
func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

// Generate joins the excerpts under a fixed preamble. The output is a
// pure function of the inputs.
func (p *LocalProvider) Generate(_ context.Context, question string, excerpts []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Based on your notes:\n\n")
	for i, excerpt := range excerpts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(excerpt))
	}
	sb.WriteString("\n\nKeep practicing. Revisiting ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString(" a few times will make it stick.")
	return sb.String(), nil
}
