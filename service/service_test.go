package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foomo/buildin-mcp/buildin"
	"github.com/foomo/buildin-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPageMarkdown(t *testing.T) {
	src := nestedSource()
	src.pages["p"] = &vo.Page{
		ID: "p",
		Properties: map[string]vo.PropertyValue{
			"title": {Type: "title", Title: []vo.RichText{{PlainText: "Handbook"}}},
		},
	}
	svc := NewService(src, nil)

	md, err := svc.GetPageMarkdown(context.Background(), " p ")
	require.NoError(t, err)

	want := "# Handbook\n\n" +
		"- \n" +
		"A\n\n" +
		"  - \n" +
		"D\n\n" +
		"text\n\n" +
		"<details>\n<summary></summary>\n\nT\n\n</details>"
	assert.Equal(t, vo.Markdown(want), md)
}

func TestGetPageMarkdownErrors(t *testing.T) {
	svc := NewService(newFakeSource(), nil)

	_, err := svc.GetPageMarkdown(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetPageMarkdown(context.Background(), "missing")
	assert.ErrorIs(t, err, buildin.ErrNotFound)
}

func TestSearch(t *testing.T) {
	src := newFakeSource()
	var got vo.SearchRequest
	src.search = func(req vo.SearchRequest) (*vo.SearchResponse, error) {
		got = req
		return &vo.SearchResponse{
			Results: []vo.Page{{
				ID:     "p1",
				Parent: &vo.Parent{Type: "page_id", PageID: "root"},
				Properties: map[string]vo.PropertyValue{
					"title": {Type: "title", Title: []vo.RichText{{Text: &vo.TextContent{Content: "Onboarding"}}}},
				},
			}},
			HasMore:    true,
			NextCursor: "n1",
		}, nil
	}
	svc := NewService(src, nil)

	res, err := svc.Search(context.Background(), vo.SearchOptions{Query: "onboard", StartCursor: "c0", PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, vo.SearchRequest{Query: "onboard", StartCursor: "c0", PageSize: 10}, got)
	assert.Equal(t, &vo.SearchResult{
		Results: []vo.ResourceLink{{
			URI:         "buildin:///pages/p1",
			Name:        "Onboarding",
			Description: "Child of page: root",
			MIMEType:    "text/markdown",
		}},
		HasMore:    true,
		NextCursor: "n1",
	}, res)
}

func TestSearchErrors(t *testing.T) {
	src := newFakeSource()
	boom := errors.New("boom")
	src.search = func(req vo.SearchRequest) (*vo.SearchResponse, error) {
		return nil, boom
	}
	svc := NewService(src, nil)

	_, err := svc.Search(context.Background(), vo.SearchOptions{Query: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), vo.SearchOptions{Query: "x", PageSize: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Search(context.Background(), vo.SearchOptions{Query: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestFormatSearchResponse(t *testing.T) {
	tests := []struct {
		name string
		page vo.Page
		want vo.ResourceLink
	}{
		{
			name: "database parent",
			page: vo.Page{
				ID:     "p1",
				Parent: &vo.Parent{Type: "database_id", DatabaseID: "db"},
				Properties: map[string]vo.PropertyValue{
					"title": {Type: "title", Title: []vo.RichText{
						{Text: &vo.TextContent{Content: "Q3 "}},
						{Text: &vo.TextContent{Content: "roadmap"}},
					}},
				},
			},
			want: vo.ResourceLink{URI: "buildin:///pages/p1", Name: "Q3 roadmap", Description: "From database: db", MIMEType: "text/markdown"},
		},
		{
			name: "untitled without parent",
			page: vo.Page{ID: "p2"},
			want: vo.ResourceLink{URI: "buildin:///pages/p2", Name: "Untitled", MIMEType: "text/markdown"},
		},
		{
			name: "workspace parent and missing id",
			page: vo.Page{Parent: &vo.Parent{Type: "workspace"}},
			want: vo.ResourceLink{URI: "buildin:///pages/unknown", Name: "Untitled", MIMEType: "text/markdown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := formatSearchResponse(&vo.SearchResponse{Results: []vo.Page{tt.page}})
			require.Len(t, res.Results, 1)
			assert.Equal(t, tt.want, res.Results[0])
			assert.False(t, res.HasMore)
			assert.Empty(t, res.NextCursor)
		})
	}

	t.Run("nil response", func(t *testing.T) {
		res := formatSearchResponse(nil)
		assert.Empty(t, res.Results)
		assert.NotNil(t, res.Results)
	})
}
