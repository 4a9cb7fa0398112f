// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Wunjo journaling and insight tools for LLM integration
// via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wunjo/internal/assistant"
	"github.com/starford/wunjo/internal/insight"
	"github.com/starford/wunjo/internal/journal"
	"github.com/starford/wunjo/internal/mindmap"
	"github.com/starford/wunjo/internal/models"
)

// Server wraps the MCP server with Wunjo tools.
type Server struct {
	mcp       *server.MCPServer
	journal   *journal.Service
	insights  *insight.Service
	maps      *mindmap.Service
	assistant *assistant.Service
}

// New creates a new MCP server with all Wunjo tools registered.
func New(j *journal.Service, ins *insight.Service, m *mindmap.Service, a *assistant.Service) *Server {
	s := &Server{journal: j, insights: ins, maps: m, assistant: a}

	s.mcp = server.NewMCPServer(
		"Wunjo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("add_check_in",
		mcp.WithDescription("Log a mood check-in for the user. "+
			"Read the journaling contract first via the get_journal_contract tool."),
		mcp.WithString("mood", mcp.Required(), mcp.Description("One of: sad, tired, neutral, calm, happy")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes")),
	), s.addCheckIn)

	s.mcp.AddTool(mcp.NewTool("list_check_ins",
		mcp.WithDescription("List recent mood check-ins, newest first."),
		mcp.WithString("limit", mcp.Description("Max entries to return (default 20)")),
	), s.listCheckIns)

	s.mcp.AddTool(mcp.NewTool("today_insight",
		mcp.WithDescription("Return today's mood-risk estimate with its feature metadata and hint message."),
	), s.todayInsight)

	s.mcp.AddTool(mcp.NewTool("explain_today",
		mcp.WithDescription("Decompose today's risk estimate into per-feature contributions, largest drivers first."),
	), s.explainToday)

	s.mcp.AddTool(mcp.NewTool("mind_map",
		mcp.WithDescription("Return the mood correlation graph over the trailing window."),
	), s.mindMap)

	s.mcp.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Ask the local assistant about mood, habits, sleep, or cycles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-form question")),
	), s.ask)

	// Resource: journaling contract.
	s.mcp.AddResource(
		mcp.NewResource("wunjo://journal-contract", "Journaling Contract",
			mcp.WithResourceDescription("Moods, note cue keywords, and privacy rules for check-ins."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readJournalContractResource,
	)

	s.mcp.AddTool(mcp.NewTool("get_journal_contract",
		mcp.WithDescription("Returns the journaling contract. Call this before logging check-ins."),
	), s.getJournalContract)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) addCheckIn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := req.RequireString("mood")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes := ""
	if n, nErr := req.RequireString("notes"); nErr == nil {
		notes = n
	}
	rec, err := s.journal.AddCheckIn(ctx, journal.CheckInInput{Mood: models.Mood(mood), Notes: notes})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("logged: %s (%s)", rec.Mood, rec.ID)), nil
}

func (s *Server) listCheckIns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if raw, err := req.RequireString("limit"); err == nil {
		fmt.Sscanf(raw, "%d", &limit)
	}
	items, err := s.journal.ListCheckIns(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) todayInsight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.insights.InferToday(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) explainToday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exp, err := s.insights.ExplainToday(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if exp == nil {
		return mcp.NewToolResultText("no model trained yet"), nil
	}
	out, _ := json.MarshalIndent(exp, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) mindMap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graph, err := s.maps.Build(ctx, mindmap.DefaultWindowDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(graph, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) ask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answer, err := s.assistant.Answer(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *Server) getJournalContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(JournalContract), nil
}

func (s *Server) readJournalContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "wunjo://journal-contract",
			MIMEType: "text/markdown",
			Text:     JournalContract,
		},
	}, nil
}
