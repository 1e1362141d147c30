package ai

import (
	"encoding/json"
	"strings"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/tidwall/gjson"
)

// ColumnDef describes one proposed column.
type ColumnDef struct {
	Column      string `json:"column"`
	Type        string `json:"type"`
	Constraints string `json:"constraints,omitempty"`
}

// ProposedTable is one AI-originated schema proposal. Its CREATE and INSERT
// statements must be directly executable by the engine.
type ProposedTable struct {
	Name             string      `json:"name"`
	CreateStatement  string      `json:"create_statement"`
	Schema           []ColumnDef `json:"schema"`
	InsertStatements []string    `json:"insert_statements"`
}

// SchemaProposal is the structured result of analyzing a failing query.
type SchemaProposal struct {
	Tables      []ProposedTable `json:"tables"`
	Explanation string          `json:"explanation"`
}

// ParseSchemaProposal extracts and strictly decodes a SchemaProposal from a
// free-form model reply. The reply may wrap the JSON object in markdown
// fencing or narrative text; anything that does not decode into the full
// structure is a malformed-output error, never a partial result.
func ParseSchemaProposal(reply string) (*SchemaProposal, error) {
	raw := extractJSON(reply)
	if raw == "" || !gjson.Valid(raw) {
		return nil, errors.New(ErrMalformedOutput, "no JSON object found in AI response", nil)
	}

	var proposal SchemaProposal
	if err := json.Unmarshal([]byte(raw), &proposal); err != nil {
		return nil, errors.New(ErrMalformedOutput, "failed to decode schema proposal", err)
	}

	if len(proposal.Tables) == 0 {
		return nil, errors.New(ErrProposalNoTables, "AI response proposed no tables", nil)
	}
	for _, table := range proposal.Tables {
		if strings.TrimSpace(table.Name) == "" {
			return nil, errors.New(ErrProposalIncomplete, "proposed table has an empty name", nil)
		}
		if strings.TrimSpace(table.CreateStatement) == "" {
			return nil, errors.Newf(ErrProposalIncomplete, "proposed table %q has no CREATE statement", table.Name)
		}
	}

	return &proposal, nil
}

// extractJSON finds the first {...} JSON object in the text, handling
// markdown code fences and surrounding narrative.
func extractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			candidate := strings.TrimSpace(text[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	// Match braces to find a raw JSON object.
	depth := 0
	start := -1
	for i, ch := range text {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
