package service

import (
	"strings"

	"github.com/foomo/buildin-mcp/service/vo"
)

const (
	PageURIPrefix    = "buildin:///pages/"
	MimeTypeMarkdown = "text/markdown"
)

// PageURI returns the resource uri of a page
func PageURI(pageID string) string {
	return PageURIPrefix + pageID
}

func formatSearchResponse(res *vo.SearchResponse) *vo.SearchResult {
	result := &vo.SearchResult{
		Results: []vo.ResourceLink{},
	}
	if res == nil {
		return result
	}
	for _, page := range res.Results {
		result.Results = append(result.Results, toResourceLink(page))
	}
	result.HasMore = res.HasMore
	result.NextCursor = res.NextCursor
	return result
}

func toResourceLink(page vo.Page) vo.ResourceLink {
	id := page.ID
	if id == "" {
		id = "unknown"
	}
	return vo.ResourceLink{
		URI:         PageURI(id),
		Name:        searchTitle(page),
		Description: parentDescription(page.Parent),
		MIMEType:    MimeTypeMarkdown,
	}
}

// searchTitle joins the text content of the title property
func searchTitle(page vo.Page) string {
	prop, ok := page.Properties["title"]
	if !ok || prop.Title == nil {
		return "Untitled"
	}
	var sb strings.Builder
	for _, item := range prop.Title {
		if item.Text != nil {
			sb.WriteString(item.Text.Content)
		}
	}
	return sb.String()
}

func parentDescription(parent *vo.Parent) string {
	if parent == nil {
		return ""
	}
	switch parent.Type {
	case "database_id":
		return "From database: " + parent.DatabaseID
	case "page_id":
		return "Child of page: " + parent.PageID
	default:
		return ""
	}
}
