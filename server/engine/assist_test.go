package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sqlcanvas/sqlcanvas/server/ai"
	"github.com/sqlcanvas/sqlcanvas/server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider plays the model role: it returns a canned reply and counts
// how often it is called.
type stubProvider struct {
	reply string
	err   error
	calls int
}

func (p *stubProvider) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *stubProvider) Name() string { return "stub" }

const employeesProposal = `{
	"tables": [
		{
			"name": "employees",
			"create_statement": "CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT NOT NULL, department TEXT)",
			"schema": [
				{"column": "id", "type": "INTEGER", "constraints": "PRIMARY KEY"},
				{"column": "name", "type": "TEXT", "constraints": "NOT NULL"},
				{"column": "department", "type": "TEXT", "constraints": ""}
			],
			"insert_statements": [
				"INSERT INTO employees VALUES (1, 'Grace Hopper', 'Engineering')",
				"INSERT INTO employees VALUES (2, 'Alan Kay', 'Research')"
			]
		}
	],
	"explanation": "The query references an employees table that did not exist, so one was created with sample rows."
}`

func TestExecuteWithAssistCreatesMissingTable(t *testing.T) {
	e := newTestEngine(t)
	provider := &stubProvider{reply: employeesProposal}
	svc := ai.NewService(provider, zerolog.Nop())
	ctx := context.Background()
	qctx := types.QueryContext{UserID: 1, Query: "SELECT * FROM employees"}

	res := e.ExecuteWithAssist(ctx, qctx, svc)
	require.True(t, res.Success, "error: %s", res.Error)
	assert.True(t, res.AIAssisted)
	assert.Equal(t, []string{"employees"}, res.TablesCreated)
	assert.NotEmpty(t, res.AIExplanation)
	assert.Equal(t, 2, res.ResultCount)
	assert.Equal(t, 1, provider.calls, "AI collaborator is called at most once")

	// The generated table is recorded with its provenance.
	rec, err := e.meta.GetGeneratedTable(ctx, 1, "employees")
	require.NoError(t, err)
	assert.True(t, rec.CreatedByAI)
	assert.Equal(t, 2, rec.SampleDataCount)
}

func TestExecuteWithAssistSkipsAIOnSuccess(t *testing.T) {
	e := newTestEngine(t)
	exec(t, e, 1, "CREATE TABLE t (a INTEGER)")

	provider := &stubProvider{reply: employeesProposal}
	svc := ai.NewService(provider, zerolog.Nop())

	res := e.ExecuteWithAssist(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM t"}, svc)
	require.True(t, res.Success)
	assert.False(t, res.AIAssisted)
	assert.Equal(t, 0, provider.calls)
}

func TestExecuteWithAssistNoRecursion(t *testing.T) {
	// The proposal does not fix the failing query, so the retry fails too.
	// The AI must still be consulted exactly once.
	e := newTestEngine(t)
	provider := &stubProvider{reply: employeesProposal}
	svc := ai.NewService(provider, zerolog.Nop())

	res := e.ExecuteWithAssist(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM unrelated"}, svc)
	assert.False(t, res.Success)
	assert.True(t, res.AIAssisted)
	assert.Equal(t, 1, provider.calls)
}

func TestExecuteWithAssistSurfacesInferenceFailure(t *testing.T) {
	e := newTestEngine(t)
	provider := &stubProvider{reply: "I am sorry, I cannot produce a schema for that."}
	svc := ai.NewService(provider, zerolog.Nop())

	res := e.ExecuteWithAssist(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM employees"}, svc)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.False(t, res.AIAssisted)
	assert.Equal(t, 1, provider.calls)
}

func TestExecuteWithAssistContinuesPastBadTable(t *testing.T) {
	proposal := `{
		"tables": [
			{
				"name": "broken",
				"create_statement": "CREATE TABLE broken (",
				"schema": [{"column": "a", "type": "INTEGER", "constraints": ""}],
				"insert_statements": []
			},
			{
				"name": "employees",
				"create_statement": "CREATE TABLE employees (id INTEGER, name TEXT)",
				"schema": [
					{"column": "id", "type": "INTEGER", "constraints": ""},
					{"column": "name", "type": "TEXT", "constraints": ""}
				],
				"insert_statements": ["INSERT INTO employees VALUES (1, 'Grace')"]
			}
		],
		"explanation": "Two tables proposed."
	}`
	e := newTestEngine(t)
	provider := &stubProvider{reply: proposal}
	svc := ai.NewService(provider, zerolog.Nop())

	res := e.ExecuteWithAssist(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM employees"}, svc)
	require.True(t, res.Success, "error: %s", res.Error)
	assert.Equal(t, []string{"employees"}, res.TablesCreated, "a failed sibling must not abort the rest")
}

func TestExecuteWithAssistWithoutService(t *testing.T) {
	e := newTestEngine(t)

	res := e.ExecuteWithAssist(context.Background(), types.QueryContext{UserID: 1, Query: "SELECT * FROM employees"}, nil)
	assert.False(t, res.Success)
	assert.False(t, res.AIAssisted)
}
