package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/tools"
)

// popularSymbols is the demo symbol list offered to the dashboard
var popularSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN",
	"NVDA", "META", "NFLX", "AMD", "INTC",
	"JPM", "V", "WMT", "DIS", "PG",
}

// seriesTail caps how many candles a market response carries
const seriesTail = 60

func (s *Server) handleHealth(c echo.Context) error {
	keys, ttl := s.provider.CacheInfo()
	return successResponse(c, map[string]any{
		"status":            "ok",
		"store":             s.storeKind,
		"cached_series":     keys,
		"cache_ttl_minutes": int(ttl.Minutes()),
	})
}

func (s *Server) handleSymbols(c echo.Context) error {
	return successResponse(c, map[string]any{"symbols": popularSymbols})
}

func (s *Server) handleMarket(c echo.Context) error {
	req := &marketRequest{}
	if details, err := bindAndValidate(c, req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), details)
	}

	symbol := c.Param("symbol")
	frame, err := s.provider.Frame(c.Request().Context(), symbol, req.Period, req.Interval)
	if err != nil {
		return domainErrorResponse(c, err)
	}

	candles := frame.Candles
	if len(candles) > seriesTail {
		candles = candles[len(candles)-seriesTail:]
	}

	return successResponse(c, map[string]any{
		"symbol":    frame.Symbol,
		"synthetic": frame.Synthetic,
		"candles":   candles,
		"snapshot":  tools.Snapshot(frame),
	})
}

func (s *Server) handleRunStep(c echo.Context) error {
	role, ok := agents.ParseRole(c.Param("role"))
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "UNKNOWN_ROLE",
			"unknown agent role: "+c.Param("role"), nil)
	}

	result, err := s.pipeline.RunStep(c.Request().Context(), c.Param("symbol"), role)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	if result.Err != nil {
		return domainErrorResponse(c, result.Err)
	}
	return successResponse(c, result)
}

func (s *Server) handleRunAll(c echo.Context) error {
	results, err := s.pipeline.RunAll(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, map[string]any{"steps": results})
}

func (s *Server) handleState(c echo.Context) error {
	return successResponse(c, s.pipeline.StateFor(c.Param("symbol")))
}

func (s *Server) handleReset(c echo.Context) error {
	symbol := c.Param("symbol")
	s.pipeline.Reset(symbol)
	return successResponse(c, map[string]any{"symbol": symbol, "reset": true})
}

func (s *Server) handleTrade(c echo.Context) error {
	trade, err := s.pipeline.ExecuteTrade(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, trade)
}

func (s *Server) handleListTools(c echo.Context) error {
	type toolInfo struct {
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		InputSchema  json.RawMessage `json:"input_schema"`
		OutputSchema json.RawMessage `json:"output_schema"`
	}

	var out []toolInfo
	for _, t := range s.registry.List() {
		out = append(out, toolInfo{
			Name:         t.Name(),
			Description:  t.Description(),
			InputSchema:  t.InputSchema(),
			OutputSchema: t.OutputSchema(),
		})
	}
	return successResponse(c, map[string]any{"tools": out})
}

func (s *Server) handleInvokeTool(c echo.Context) error {
	tool, ok := s.registry.Get(c.Param("name"))
	if !ok {
		return errorResponse(c, http.StatusNotFound, "UNKNOWN_TOOL",
			"unknown tool: "+c.Param("name"), nil)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "unreadable body", nil)
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	result, err := tool.Invoke(c.Request().Context(), body)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "TOOL_FAILED", err.Error(), nil)
	}
	return successResponse(c, json.RawMessage(result))
}

func (s *Server) handleDecisions(c echo.Context) error {
	req := &decisionsRequest{}
	if details, err := bindAndValidate(c, req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), details)
	}

	records, err := s.store.Decisions(c.Request().Context(), req.Symbol, req.Role, req.Limit)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, map[string]any{"decisions": records})
}

func (s *Server) handleAudit(c echo.Context) error {
	req := &auditRequest{}
	if details, err := bindAndValidate(c, req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), details)
	}

	entries, err := s.store.AuditTrail(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, map[string]any{"audit_trail": entries})
}

func (s *Server) handleAuditSummary(c echo.Context) error {
	summary, err := s.store.AuditSummary(c.Request().Context())
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return successResponse(c, summary)
}

func (s *Server) handleEvents(c echo.Context) error {
	return s.hub.Subscribe(c.Response(), c.Request())
}
