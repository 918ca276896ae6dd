package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dailyNoteLayout = "2006-01-02"

// AppendDailyNote appends the given insights to the daily note for now's
// date, creating the folder and the note (with its header) when missing.
// It returns the path of the note written to.
func AppendDailyNote(dir string, now time.Time, hits []*Insight) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create daily note folder: %w", err)
	}

	day := now.Format(dailyNoteLayout)
	path := filepath.Join(dir, day+".md")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		header := fmt.Sprintf("# Daily Note %s\n\n", day)
		if err := os.WriteFile(path, []byte(header), 0644); err != nil {
			return "", fmt.Errorf("create daily note: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("open daily note: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString("\n\n## 🎯 Feynman Hits\n")
	for _, hit := range hits {
		fmt.Fprintf(&sb, "### Match: %s\n", hit.ProjectName)
		fmt.Fprintf(&sb, "> **%s**: %s\n\n", hit.InsightType, hit.Summary)
		fmt.Fprintf(&sb, "👉 **Action:** %s\n", hit.ActionableAdvice)
		fmt.Fprintf(&sb, "🔗 [%s](%s)\n\n", hit.SourceName, hit.SourceURL)
		sb.WriteString("---\n")
	}

	if _, err := file.WriteString(sb.String()); err != nil {
		return "", fmt.Errorf("append to daily note: %w", err)
	}
	return path, nil
}
