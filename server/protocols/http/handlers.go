package http

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sqlcanvas/sqlcanvas/server/ai"
	"github.com/sqlcanvas/sqlcanvas/server/engine"
	"github.com/sqlcanvas/sqlcanvas/server/types"
	"github.com/sqlcanvas/sqlcanvas/server/viz"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type visualizeRequest struct {
	Columns   []string                 `json:"columns"`
	Data      []map[string]interface{} `json:"data"`
	QueryType string                   `json:"query_type"`
	QueryText string                   `json:"query_text"`
}

type apiKeyRequest struct {
	APIKey  string `json:"api_key"`
	Service string `json:"service"`
}

type sampleDataRequest struct {
	TableName string `json:"table_name"`
	RowCount  int    `json:"row_count"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := s.auth.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return badRequestErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	token, user, err := s.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid username or password"})
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if token, ok := c.Locals("session_token").(string); ok {
		s.auth.Logout(token)
	}
	return c.JSON(fiber.Map{"success": true})
}

// handleQuery executes one SQL statement with the AI-assisted fallback when
// the user has a stored credential. The result is always 200 with a
// structured body; execution failures live in its error field.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Query == "" {
		return badRequest(c, "query is required")
	}

	uid := userID(c)
	qctx := types.QueryContext{UserID: uid, Query: req.Query, ClientAddr: c.IP()}

	svc, err := s.aiService(c.Context(), uid)
	if err != nil {
		// No credential: direct execution only, no assisted retry.
		s.logger.Debug().Err(err).Int64("user_id", uid).Msg("AI service unavailable for query")
		svc = nil
	}

	result := s.engine.ExecuteWithAssist(c.Context(), qctx, svc)
	s.engine.LogResult(c.Context(), qctx, result)
	return c.JSON(result)
}

func (s *Server) handleListTables(c *fiber.Ctx) error {
	tables, err := s.engine.ListTables(c.Context(), userID(c))
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(fiber.Map{"tables": tables})
}

func (s *Server) handleTableInfo(c *fiber.Ctx) error {
	info, err := s.engine.GetTableInfo(c.Context(), userID(c), c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(info)
}

func (s *Server) handleSampleRows(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	sample, err := s.engine.SampleRows(c.Context(), userID(c), c.Params("name"), limit)
	if err != nil {
		return badRequestErr(c, err)
	}
	return c.JSON(sample)
}

// handleVisualize picks a chart archetype for a result payload.
func (s *Server) handleVisualize(c *fiber.Ctx) error {
	var req visualizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	spec, err := viz.Select(req.Columns, req.Data, req.QueryType)
	if err != nil {
		return badRequestErr(c, err)
	}
	return c.JSON(spec)
}

func (s *Server) handleFlowDiagram(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Query == "" {
		return badRequest(c, "query is required")
	}

	queryType := string(engine.Classify(req.Query))
	return c.JSON(viz.BuildFlowDiagram(req.Query, queryType))
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.meta.ListQueryLog(c.Context(), userID(c), limit)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(fiber.Map{"history": entries})
}

// handleTestAPIKey validates a raw key against the provider without storing
// anything.
func (s *Server) handleTestAPIKey(c *fiber.Ctx) error {
	var req apiKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.APIKey == "" {
		return badRequest(c, "API key is required")
	}

	provider, err := ai.NewProvider(s.aiCfg, req.APIKey)
	if err != nil {
		return badRequestErr(c, err)
	}
	if err := ai.NewService(provider, s.logger).TestConnection(c.Context()); err != nil {
		return c.JSON(fiber.Map{"valid": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// handleSaveCredential validates the key first, then persists it encrypted.
func (s *Server) handleSaveCredential(c *fiber.Ctx) error {
	var req apiKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.APIKey == "" {
		return badRequest(c, "API key is required")
	}
	service := req.Service
	if service == "" {
		service = s.aiCfg.Provider
	}

	provider, err := ai.NewProvider(s.aiCfg, req.APIKey)
	if err != nil {
		return badRequestErr(c, err)
	}
	if err := ai.NewService(provider, s.logger).TestConnection(c.Context()); err != nil {
		return badRequestErr(c, err)
	}

	if err := s.creds.Set(c.Context(), userID(c), service, req.APIKey); err != nil {
		return serverErr(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) handleExplainQuery(c *fiber.Ctx) error {
	return s.handleAIText(c, func(ctx context.Context, svc *ai.Service, query string) (string, error) {
		return svc.Explain(ctx, query)
	}, "explanation")
}

func (s *Server) handleSuggestImprovements(c *fiber.Ctx) error {
	return s.handleAIText(c, func(ctx context.Context, svc *ai.Service, query string) (string, error) {
		return svc.SuggestImprovements(ctx, query)
	}, "suggestions")
}

func (s *Server) handleAIText(c *fiber.Ctx, call func(context.Context, *ai.Service, string) (string, error), field string) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Query == "" {
		return badRequest(c, "query is required")
	}

	svc, err := s.aiService(c.Context(), userID(c))
	if err != nil {
		return badRequestErr(c, err)
	}

	text, err := call(c.Context(), svc, req.Query)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(fiber.Map{field: text})
}

func (s *Server) handleGenerateSampleData(c *fiber.Ctx) error {
	var req sampleDataRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.TableName == "" {
		return badRequest(c, "table name is required")
	}

	uid := userID(c)
	rec, err := s.meta.GetGeneratedTable(c.Context(), uid, req.TableName)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "table not found"})
	}

	var schema []ai.ColumnDef
	if err := json.Unmarshal([]byte(rec.TableSchema), &schema); err != nil {
		return serverErr(c, err)
	}

	svc, err := s.aiService(c.Context(), uid)
	if err != nil {
		return badRequestErr(c, err)
	}

	statements, err := svc.GenerateSampleRows(c.Context(), schema, req.RowCount)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(fiber.Map{"insert_statements": statements})
}

// aiService builds a per-request AI service using the user's stored
// credential. The credential check happens here, before any model call.
func (s *Server) aiService(ctx context.Context, uid int64) (*ai.Service, error) {
	var key string
	if s.aiCfg.Provider != "ollama" {
		k, err := s.creds.Get(ctx, uid, s.aiCfg.Provider)
		if err != nil {
			return nil, err
		}
		key = k
	}

	provider, err := ai.NewProvider(s.aiCfg, key)
	if err != nil {
		return nil, err
	}
	return ai.NewService(provider, s.logger), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func badRequestErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func serverErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
