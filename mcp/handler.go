package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foomo/buildin-mcp/buildin"
	"github.com/foomo/buildin-mcp/service"
	"github.com/foomo/buildin-mcp/service/vo"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	Version = "0.1.0"

	PageURITemplate = service.PageURIPrefix + "{pageId}"
	PromptName      = "buildin-instructions"
)

type SearchRequest struct {
	Query       string `json:"query"`       // Search query
	StartCursor string `json:"startCursor"` // Pagination cursor for the next page of results
	PageSize    int    `json:"pageSize"`    // Number of results per page
}

// NewServer creates a new MCP server with the search tool, the page resource
// template and the instructions prompt
func NewServer(logger *zap.Logger, serviceInstance service.Service) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"Buildin MCP",
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithInstructions(Instructions),
	)

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Searches for pages in Buildin.ai"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithString("startCursor",
			mcp.Description("Pagination cursor for next page of results"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Number of results per page (default: 20)"),
		),
	)
	s.AddTool(searchTool, mcp.NewTypedToolHandler(getSearchHandler(logger, serviceInstance)))

	pageTemplate := mcp.NewResourceTemplate(
		PageURITemplate,
		"Buildin.ai Page",
		mcp.WithTemplateDescription("Page content from Buildin.ai"),
		mcp.WithTemplateMIMEType(service.MimeTypeMarkdown),
	)
	s.AddResourceTemplate(pageTemplate, getPageResourceHandler(logger, serviceInstance))

	s.AddPrompt(mcp.NewPrompt(PromptName,
		mcp.WithPromptDescription("System instructions for working with Buildin.ai knowledge base"),
	), instructionsPromptHandler)

	return s
}

// getSearchHandler returns the typed handler of the search tool
func getSearchHandler(logger *zap.Logger, serviceInstance service.Service) func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchRequest) (*mcp.CallToolResult, error) {
		// Validate inputs
		if strings.TrimSpace(args.Query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		if args.PageSize < 0 {
			return mcp.NewToolResultError("pageSize must not be negative"), nil
		}

		result, err := serviceInstance.Search(ctx, vo.SearchOptions{
			Query:       args.Query,
			StartCursor: args.StartCursor,
			PageSize:    args.PageSize,
		})
		if err != nil {
			logger.Error("search failed", append(requestFields(ctx), zap.String("query", args.Query), zap.Error(err))...)
			return mcp.NewToolResultError(fmt.Sprintf("failed to search: %v", err)), nil
		}

		return searchToolResult(result), nil
	}
}

func searchToolResult(result *vo.SearchResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Results)+1)
	for _, link := range result.Results {
		content = append(content, mcp.NewResourceLink(link.URI, link.Name, link.Description, link.MIMEType))
	}
	if result.HasMore && result.NextCursor != "" {
		content = append(content, mcp.NewTextContent("More results available. Next cursor: "+result.NextCursor))
	}
	return &mcp.CallToolResult{Content: content}
}

// getPageResourceHandler serves buildin:///pages/{pageId} as markdown
func getPageResourceHandler(logger *zap.Logger, serviceInstance service.Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		pageID, err := pageIDFromURI(uri)
		if err != nil {
			return nil, err
		}

		markdown, err := serviceInstance.GetPageMarkdown(ctx, pageID)
		if err != nil {
			logger.Error("failed to get page", append(requestFields(ctx), zap.String("pageID", pageID), zap.Error(err))...)
			if errors.Is(err, buildin.ErrNotFound) {
				return nil, fmt.Errorf("page %s not found", pageID)
			}
			return nil, fmt.Errorf("failed to get page %s: %w", pageID, err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: service.MimeTypeMarkdown,
				Text:     string(markdown),
			},
		}, nil
	}
}

// pageIDFromURI extracts and validates the page id of a page resource uri
func pageIDFromURI(uri string) (string, error) {
	raw, ok := strings.CutPrefix(uri, service.PageURIPrefix)
	if !ok || raw == "" {
		return "", fmt.Errorf("not a page resource uri: %s", uri)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid page id %q: %w", raw, err)
	}
	return id.String(), nil
}

func instructionsPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return mcp.NewGetPromptResult(
		"Buildin.ai Instructions",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(Instructions)),
		},
	), nil
}

// requestFields adds the remote address when the call came in over HTTP
func requestFields(ctx context.Context) []zap.Field {
	req, ok := httpRequestFromContext(ctx)
	if !ok || req == nil {
		return nil
	}
	return []zap.Field{zap.String("remoteAddr", req.RemoteAddr)}
}
