package agent

import (
	"encoding/json"
	"strings"
)

// Insight is one connection between an article and an active problem, as
// reported by the model.
type Insight struct {
	ProjectName      string `json:"project_name"`
	InsightType      string `json:"insight_type"`
	Summary          string `json:"summary"`
	ActionableAdvice string `json:"actionable_advice"`
	SourceName       string `json:"source_name"`

	// SourceURL is attached from the originating document, not the model.
	SourceURL string `json:"-"`
}

// ParseInsight extracts an Insight from a model reply. The model signals
// "no connection" with the literal NO_HIT marker; otherwise the first JSON
// object embedded in the reply is decoded. Replies that carry neither
// produce (nil, false).
func ParseInsight(reply string) (*Insight, bool) {
	reply = strings.TrimSpace(reply)
	if reply == "" || strings.Contains(reply, "NO_HIT") {
		return nil, false
	}

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, false
	}

	var insight Insight
	if err := json.Unmarshal([]byte(reply[start:end+1]), &insight); err != nil {
		return nil, false
	}
	if insight.ProjectName == "" {
		return nil, false
	}
	return &insight, true
}
