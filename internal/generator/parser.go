package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Problem is one generated practice problem.
type Problem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	HelpText string `json:"helpText"`
}

type problemBatch struct {
	Problems []Problem `json:"problems"`
}

// ParseProblems decodes a model response into problems, tolerating markdown
// code fences around the JSON body.
func ParseProblems(content string) ([]Problem, error) {
	cleaned := stripCodeFences(content)

	var batch problemBatch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, fmt.Errorf("decode problem batch: %w", err)
	}

	if len(batch.Problems) == 0 {
		return nil, fmt.Errorf("empty problem batch")
	}
	for i, p := range batch.Problems {
		if strings.TrimSpace(p.Question) == "" {
			return nil, fmt.Errorf("problem %d has empty question", i)
		}
		if strings.TrimSpace(p.Answer) == "" {
			return nil, fmt.Errorf("problem %d has empty answer", i)
		}
	}

	return batch.Problems, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
