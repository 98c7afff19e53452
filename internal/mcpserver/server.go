// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes org chart tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Craig-TribeAI/org-chart-builder/internal/command"
	"github.com/Craig-TribeAI/org-chart-builder/internal/orgservice"
)

// Server wraps the MCP server with org chart tools.
type Server struct {
	mcp *server.MCPServer
	svc *orgservice.Service
}

// New creates a new MCP server with all org chart tools registered.
func New(svc *orgservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"OrgChart Builder",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_chart_state",
		mcp.WithDescription("Get the active quarter, departments, and every person with their "+
			"current manager. Call this first to ground person and department ids before "+
			"issuing commands."),
	), s.getChartState)

	s.mcp.AddTool(mcp.NewTool("get_chart",
		mcp.WithDescription("Get the rendered diagram projection: positioned nodes and "+
			"deduplicated reporting edges for the active quarter."),
	), s.getChart)

	s.mcp.AddTool(mcp.NewTool("execute_command",
		mcp.WithDescription("Execute one structured operation descriptor against the chart. "+
			"The descriptor is a JSON object with a \"kind\" field: add_role, add_roles, "+
			"delete_roles, set_manager, bulk_set_manager, remove_manager, bulk_remove_manager, "+
			"or set_period. Destructive kinds need confirmed=true. Ground ids via "+
			"get_chart_state before calling."),
		mcp.WithString("command", mcp.Required(), mcp.Description("Descriptor JSON, e.g. {\"kind\":\"set_manager\",\"personId\":\"role-1-person-0\",\"managerId\":\"role-2-person-0\"}")),
		mcp.WithBoolean("confirmed", mcp.Description("Set true to confirm a destructive command")),
	), s.executeCommand)

	s.mcp.AddTool(mcp.NewTool("get_dataset_contract",
		mcp.WithDescription("Returns the canonical headcount plan CSV format contract. "+
			"Call this before fetching or generating datasets to ensure correct structure."),
	), s.getDatasetContract)

	s.mcp.AddTool(mcp.NewTool("fetch_dataset",
		mcp.WithDescription("Download a headcount plan CSV from an http(s) URL or data: URI "+
			"and load it as the working dataset. The file MUST follow the dataset format "+
			"contract (see get_dataset_contract or the orgchart://dataset-format resource)."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or base64 data: URI of the CSV")),
		mcp.WithString("filename", mcp.Description("Optional file name to record (must end with .csv)")),
	), s.fetchDataset)

	s.mcp.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Export the whole workspace (dataset, manager assignments, custom "+
			"roles, collapse state) as exchange JSON."),
	), s.exportDocument)

	// Resource: dataset format contract.
	s.mcp.AddResource(
		mcp.NewResource("orgchart://dataset-format", "Dataset Format Contract",
			mcp.WithResourceDescription("Canonical headcount plan CSV format that all datasets must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDatasetFormatResource,
	)

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

func (s *Server) getChartState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.svc.CommandSnapshot(ctx)
	out, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view := s.svc.Chart(ctx)
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) executeCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	confirmed := false
	if v, bErr := req.RequireBool("confirmed"); bErr == nil {
		confirmed = v
	}

	var d command.Descriptor
	if jsonErr := json.Unmarshal([]byte(raw), &d); jsonErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid command JSON: %v", jsonErr)), nil
	}

	res, err := command.Execute(ctx, s.svc, d, confirmed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(res)
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDatasetContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DatasetFormatContract), nil
}

func (s *Server) exportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.svc.Export(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readDatasetFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "orgchart://dataset-format",
			MIMEType: "text/markdown",
			Text:     DatasetFormatContract,
		},
	}, nil
}
