package viz

import (
	"fmt"
	"strings"
)

// FlowDiagram is an ordered list of named steps rendered as a simple linear
// flow. It is derived purely from keyword presence in the statement text.
type FlowDiagram struct {
	QueryType   string   `json:"query_type"`
	Steps       []string `json:"steps"`
	Description string   `json:"description"`
}

// selectClauses are the SELECT execution stages, in evaluation order. The
// diagram keeps this order regardless of where the keywords appear in the
// statement text.
var selectClauses = []struct {
	keyword string
	step    string
}{
	{"FROM", "FROM Tables"},
	{"WHERE", "WHERE Filter"},
	{"GROUP BY", "GROUP BY"},
	{"HAVING", "HAVING"},
	{"SELECT", "SELECT Columns"},
	{"ORDER BY", "ORDER BY"},
}

// BuildFlowDiagram produces the execution-flow steps for one statement.
// This is a presentation aid built on a shallow keyword scan, not a parser:
// a keyword inside a string literal or comment still counts.
func BuildFlowDiagram(queryText, queryType string) *FlowDiagram {
	var steps []string
	switch queryType {
	case "SELECT":
		steps = selectSteps(queryText)
	case "INSERT":
		steps = []string{"Prepare Data", "Validate Constraints", "INSERT Records"}
	case "UPDATE":
		steps = []string{"Find Records", "Apply WHERE Filter", "UPDATE Values", "Validate Constraints"}
	case "DELETE":
		steps = []string{"Find Records", "Apply WHERE Filter", "DELETE Records"}
	}

	return &FlowDiagram{
		QueryType:   queryType,
		Steps:       steps,
		Description: fmt.Sprintf("Execution flow for %s query", queryType),
	}
}

func selectSteps(queryText string) []string {
	upper := strings.ToUpper(queryText)
	var steps []string
	for _, clause := range selectClauses {
		if strings.Contains(upper, clause.keyword) {
			steps = append(steps, clause.step)
		}
	}
	if len(steps) == 0 {
		steps = []string{"SELECT"}
	}
	return steps
}
