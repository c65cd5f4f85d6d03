// Package mcpserver exposes the documentation to MCP clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/pages"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/version"
)

const (
	ServerName = "docsite"
	// DefaultEndpoint is where the streamable HTTP transport is mounted.
	DefaultEndpoint = "/mcp"
)

// Page formats accepted by get_page.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatSource   = "source"
)

type ListPagesRequest struct{}

type PageSummary struct {
	Route string `json:"route"`
	Slug  string `json:"slug,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ListPagesResponse struct {
	Pages []PageSummary `json:"pages"`
}

type GetPageRequest struct {
	Slug   string `json:"slug"`
	Format string `json:"format"`
}

type GetPageResponse struct {
	Slug        string           `json:"slug"`
	Route       string           `json:"route"`
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Format      string           `json:"format"`
	Content     string           `json:"content"`
	Outline     []render.Heading `json:"outline,omitempty"`
}

type GetNavigationRequest struct{}

type GetNavigationResponse struct {
	Sections []navigation.Item `json:"sections"`
}

// New creates the MCP server with the documentation tools registered.
func New(st *site.Site) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version.Version,
		server.WithToolCapabilities(false),
	)

	listTool := mcp.NewTool("list_pages",
		mcp.WithDescription("List every documentation page with its route and title"),
	)
	s.AddTool(listTool, mcp.NewTypedToolHandler(listPagesHandler(st)))

	getTool := mcp.NewTool("get_page",
		mcp.WithDescription("Get one documentation page by slug"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Page slug without the /docs/ prefix, e.g. 'sdks/python'"),
		),
		mcp.WithString("format",
			mcp.Description("Content format: markdown (default, converted from the rendered page), html, or source"),
			mcp.Enum(FormatMarkdown, FormatHTML, FormatSource),
		),
	)
	s.AddTool(getTool, mcp.NewTypedToolHandler(getPageHandler(st)))

	navTool := mcp.NewTool("get_navigation",
		mcp.WithDescription("Get the sidebar navigation sections and their links"),
	)
	s.AddTool(navTool, mcp.NewTypedToolHandler(getNavigationHandler(st)))

	return s
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	slog.Info("Starting MCP server in stdio mode")
	return server.ServeStdio(s)
}

// NewHTTPHandler returns the streamable HTTP transport mounted at endpoint.
func NewHTTPHandler(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(endpoint))
}

func listPagesHandler(st *site.Site) func(context.Context, mcp.CallToolRequest, ListPagesRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, _ ListPagesRequest) (*mcp.CallToolResult, error) {
		base := st.Config().CanonicalURL
		routes := st.Routes(ctx)
		resp := ListPagesResponse{Pages: make([]PageSummary, 0, len(routes))}
		for _, route := range routes {
			if route == pages.Root {
				resp.Pages = append(resp.Pages, PageSummary{Route: route, Title: st.Config().Title, URL: base + route})
				continue
			}
			slugPath, _ := pages.SlugOf(route)
			doc, err := st.Document(ctx, slugPath)
			if err != nil {
				slog.Warn("MCP list_pages skipped page", logfields.Tool("list_pages"), logfields.Page(route), logfields.Error(err))
				continue
			}
			resp.Pages = append(resp.Pages, PageSummary{Route: route, Slug: doc.Slug, Title: doc.Meta.Title, URL: base + route})
		}
		return jsonResult(resp)
	}
}

func getPageHandler(st *site.Site) func(context.Context, mcp.CallToolRequest, GetPageRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args GetPageRequest) (*mcp.CallToolResult, error) {
		if args.Slug == "" {
			return mcp.NewToolResultError("slug is required"), nil
		}
		format := args.Format
		if format == "" {
			format = FormatMarkdown
		}

		doc, err := st.Document(ctx, args.Slug)
		if err != nil {
			if derrors.IsCategory(err, derrors.CategoryNotFound) || derrors.IsCategory(err, derrors.CategoryInvalidSlug) {
				return mcp.NewToolResultError(fmt.Sprintf("no page found for slug %q", args.Slug)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("failed to load page: %v", err)), nil
		}

		var body string
		switch format {
		case FormatSource:
			body = string(doc.Body)
		case FormatHTML:
			body = string(doc.Rendered.HTML)
		case FormatMarkdown:
			body, err = htmltomarkdown.ConvertString(string(doc.Rendered.HTML))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to convert page to markdown: %v", err)), nil
			}
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", args.Format)), nil
		}

		route := pages.DocPath(doc.Slug)
		return jsonResult(GetPageResponse{
			Slug:        doc.Slug,
			Route:       route,
			URL:         st.Config().CanonicalURL + route,
			Title:       doc.Meta.Title,
			Description: doc.Meta.Description.UnwrapOr(""),
			Format:      format,
			Content:     body,
			Outline:     doc.Rendered.Outline,
		})
	}
}

func getNavigationHandler(st *site.Site) func(context.Context, mcp.CallToolRequest, GetNavigationRequest) (*mcp.CallToolResult, error) {
	return func(context.Context, mcp.CallToolRequest, GetNavigationRequest) (*mcp.CallToolResult, error) {
		return jsonResult(GetNavigationResponse{Sections: st.Navigation().Sections()})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
