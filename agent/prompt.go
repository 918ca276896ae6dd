package agent

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	// Documents shorter than this are likely bare links and are skipped.
	minContentBytes = 500

	// Articles are truncated before prompting to bound token cost.
	maxContentBytes = 15000
)

var promptTemplate = template.Must(template.New("feynman").Parse(`You are an expert research assistant using the Feynman Technique.

CONTEXT (My Active Problems):
{{.Context}}

INPUT TEXT (New Article):
Title: {{.Title}}
{{.Content}}

---
YOUR TASK:
Run the Input Text against my Active Problems. Look for high-value connections.

Apply these filters:
1. THE INVERSION: Does this contradict my current hypothesis?
2. THE MECHANISM: Is there an abstract mechanism here I can steal?
3. THE SOLUTION: Does this directly solve a bottleneck?

OUTPUT FORMAT:
If NO strong connection is found, output exactly: "NO_HIT"

If a connection is found, output a JSON object:
{
    "project_name": "Name of the relevant project",
    "insight_type": "Mechanism" or "Contradiction" or "Solution",
    "summary": "One sentence summary of the connection.",
    "actionable_advice": "Specific thing I should do based on this.",
    "source_name": "Name of the article"
}`))

func buildPrompt(problems, title, content string) (string, error) {
	if len(content) > maxContentBytes {
		content = content[:maxContentBytes]
	}

	var sb strings.Builder
	err := promptTemplate.Execute(&sb, struct {
		Context string
		Title   string
		Content string
	}{Context: problems, Title: title, Content: content})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
