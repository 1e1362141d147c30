package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Service exposes the narrow-purpose AI operations the rest of the server
// consumes. All operations return a captured error rather than panicking past
// this boundary; the engine folds those errors into structured results.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService wraps a provider.
func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With().Str("component", "ai-service").Logger(),
	}
}

// ProviderName returns the underlying provider's display name.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// TestConnection performs a minimal round trip to validate a credential
// before it is stored.
func (s *Service) TestConnection(ctx context.Context) error {
	_, err := s.provider.Generate(ctx, "", "Hello, this is a connectivity test. Reply with OK.")
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI connection test failed")
		return err
	}
	return nil
}

// AnalyzeQuery asks the model to infer the schema a failing query expects and
// returns a strictly decoded proposal.
func (s *Service) AnalyzeQuery(ctx context.Context, query string) (*SchemaProposal, error) {
	prompt := fmt.Sprintf("Analyze this SQL query and create necessary tables: %s", query)
	reply, err := s.provider.Generate(ctx, systemPromptAnalyze, prompt)
	if err != nil {
		return nil, err
	}

	proposal, err := ParseSchemaProposal(reply)
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI schema proposal could not be decoded")
		return nil, err
	}

	s.logger.Debug().
		Int("tables", len(proposal.Tables)).
		Msg("AI proposed schema for failing query")

	return proposal, nil
}

// Explain returns a markdown explanation of a SQL query.
func (s *Service) Explain(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf("Explain this SQL query in markdown format: %s", query)
	return s.provider.Generate(ctx, systemPromptExplain, prompt)
}

// SuggestImprovements returns markdown improvement suggestions for a query.
func (s *Service) SuggestImprovements(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf("Suggest improvements for this SQL query in markdown format: %s", query)
	return s.provider.Generate(ctx, systemPromptSuggest, prompt)
}

// GenerateSampleRows asks the model for INSERT statements matching a schema.
func (s *Service) GenerateSampleRows(ctx context.Context, schema []ColumnDef, rowCount int) (string, error) {
	if rowCount <= 0 {
		rowCount = 10
	}

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	system := fmt.Sprintf(systemPromptSampleData, rowCount, string(schemaJSON))
	return s.provider.Generate(ctx, system, "Generate the sample data INSERT statements")
}
