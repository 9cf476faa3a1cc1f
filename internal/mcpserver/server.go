// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Gedbase tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/recordservice"
)

// Server wraps the MCP server with Gedbase tools.
type Server struct {
	mcp *server.MCPServer
	svc *recordservice.Service
}

// New creates a new MCP server with all Gedbase tools registered.
func New(svc *recordservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Gedbase",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read a genealogy record as raw GEDCOM text, including its outgoing links and referrers."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Name of the family tree")),
		mcp.WithString("xref", mcp.Required(), mcp.Description("Cross-reference identifier of the record (e.g. I1, F2)")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("import_record",
		mcp.WithDescription("Import a single GEDCOM record into a tree. "+
			"The text MUST be a complete level-0 record (e.g. starting with '0 @I1@ INDI'). "+
			"Read the contract first via the get_record_contract tool or the "+
			"gedbase://record-format resource."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Name of the family tree (created if missing)")),
		mcp.WithString("gedcom", mcp.Required(), mcp.Description("GEDCOM record text following the Gedbase record format contract")),
	), s.importRecord)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical Gedbase GEDCOM record format contract. "+
			"Call this before importing records to ensure correct structure."),
	), s.getRecordContract)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List record identifiers in a tree, optionally filtered by type."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Name of the family tree")),
		mcp.WithString("type", mcp.Description("Optional record type filter (INDI, FAM, SOUR, REPO, NOTE, OBJE)")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("record_links",
		mcp.WithDescription("Find the records a record points to and the records that point back at it."),
		mcp.WithString("tree", mcp.Required(), mcp.Description("Name of the family tree")),
		mcp.WithString("xref", mcp.Required(), mcp.Description("Cross-reference identifier of the record")),
	), s.recordLinks)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("gedbase://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical GEDCOM record format that all imported records must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
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

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	xref, err := req.RequireString("xref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.GetRecord(ctx, tree, xref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", xref)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) importRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	gedrec, err := req.RequireString("gedcom")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.svc.ImportText(ctx, tree, gedrec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("imported: %s (%s)", rec.Xref, rec.Type)), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rtype := ""
	if v, err := req.RequireString("type"); err == nil {
		rtype = v
	}

	items, err := s.svc.ListRecords(ctx, tree, models.RecordType(rtype), 1000, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s", it.Xref, it.Type))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no records found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gedbase://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}

func (s *Server) recordLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	xref, err := req.RequireString("xref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, in, err := s.svc.Links(ctx, tree, xref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(out) == 0 && len(in) == 0 {
		return mcp.NewToolResultText("no links found"), nil
	}

	var lines []string
	for _, l := range out {
		lines = append(lines, fmt.Sprintf("-> %s @%s@", l.Tag, l.To))
	}
	for _, l := range in {
		lines = append(lines, fmt.Sprintf("<- %s @%s@", l.Tag, l.From))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
