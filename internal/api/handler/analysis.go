package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/boxline/boxline-data/internal/api/respond"
	"github.com/boxline/boxline-data/internal/catalogue"
	"github.com/boxline/boxline-data/internal/dispatch"
)

const maxRequestBody = 1 << 20 // 1 MiB

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Query       string `json:"query"`
	WithComment bool   `json:"with_comment"`
}

// AnalyzeResponse is the body of POST /api/v1/analyze and /api/v1/query.
type AnalyzeResponse struct {
	Query     string `json:"query,omitempty"`
	Operation string `json:"operation,omitempty"`
	dispatch.Outcome
	Comment  string `json:"comment,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// Query executes a structured analysis request directly
// @Summary Run a structured analysis
// @Description Executes one catalogue operation from an explicit request, bypassing the interpreter
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body dispatch.Request true "Operation and parameters"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/query [post]
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := decodeJSON(w, r, &req); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY",
			"Request body must be a JSON analysis request", err.Error())
		return
	}
	if req.Operation == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_OPERATION",
			"the \"function\" field is required")
		return
	}

	outcome := h.dispatcher.Execute(r.Context(), req)
	respond.WriteJSONObject(w, http.StatusOK, AnalyzeResponse{
		Operation: req.Operation,
		Outcome:   outcome,
	})
}

// Analyze answers a natural-language question
// @Summary Analyze a natural-language question
// @Description Interprets the question, runs the matching catalogue operation, and optionally adds a model-written comment
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Question to answer"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.interpreter == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "INTERPRETER_NOT_CONFIGURED",
			"natural-language analysis requires ANTHROPIC_API_KEY; use /api/v1/query instead")
		return
	}

	var body AnalyzeRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY",
			"Request body must be a JSON object with a \"query\" field", err.Error())
		return
	}
	query := strings.TrimSpace(body.Query)
	if query == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_QUERY",
			"the \"query\" field is required")
		return
	}

	req, err := h.interpreter.Interpret(r.Context(), query)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "INTERPRETER_ERROR",
			"Query interpretation failed", err.Error())
		return
	}

	outcome := h.dispatcher.Execute(r.Context(), req)
	resp := AnalyzeResponse{
		Query:     query,
		Operation: req.Operation,
		Outcome:   outcome,
	}

	switch outcome.Status {
	case dispatch.StatusOK:
		if h.history != nil {
			if err := h.history.Save(r.Context(), query, req.Description, req.Operation); err != nil {
				// History is a convenience; losing an entry never fails the request.
				slog.Warn("history save failed", "error", err)
			}
		}
		if body.WithComment {
			resp.Comment = h.interpreter.Comment(r.Context(), query, req.Description, renderTopRows(outcome.Result, 5))
		}
	case dispatch.StatusNoOperation:
		resp.Fallback = h.interpreter.Fallback(r.Context(), query)
	}

	respond.WriteJSONObject(w, http.StatusOK, resp)
}

// Operations lists the supported analysis operations
// @Summary List operations
// @Description Returns the wire names of every supported catalogue operation
// @Tags analysis
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/operations [get]
func (h *Handler) Operations(w http.ResponseWriter, r *http.Request) {
	ops := catalogue.Operations()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"operations": ops,
		"count":      len(ops),
	})
}

// History returns recently answered queries
// @Summary Recent query history
// @Description Returns the most recently answered natural-language queries, newest first
// @Tags analysis
// @Produce json
// @Param limit query int false "Maximum entries to return" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "HISTORY_NOT_CONFIGURED",
			"query history storage is disabled")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "HISTORY_ERROR",
			"Failed to read query history", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// renderTopRows formats the first n result rows as plain text for the
// comment prompt.
func renderTopRows(res *catalogue.Result, n int) string {
	if res.Empty() {
		return "(no rows)"
	}
	var b strings.Builder
	b.WriteString(strings.Join(res.Columns, " | "))
	for i, row := range res.Rows {
		if i >= n {
			break
		}
		b.WriteString("\n")
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				cells[j] = "-"
				continue
			}
			cells[j] = fmt.Sprintf("%v", cell)
		}
		b.WriteString(strings.Join(cells, " | "))
	}
	return b.String()
}
