package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foomo/buildin-mcp/markdown"
	"github.com/foomo/buildin-mcp/service/vo"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned for requests that are rejected before any
// remote call is made
var ErrInvalidInput = errors.New("invalid input")

type Service interface {
	GetPageMarkdown(ctx context.Context, pageID string) (vo.Markdown, error)
	Search(ctx context.Context, opts vo.SearchOptions) (*vo.SearchResult, error)
}

// API is the Buildin API surface the service depends on
type API interface {
	BlockSource
	Search(ctx context.Context, req vo.SearchRequest) (*vo.SearchResponse, error)
}

type service struct {
	api     API
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewService(
	api API,
	logger *zap.Logger,
	fetcherOpts ...FetcherOption,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		api:     api,
		fetcher: NewFetcher(api, fetcherOpts...),
		logger:  logger,
	}
}

func (s *service) GetPageMarkdown(ctx context.Context, pageID string) (vo.Markdown, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return "", fmt.Errorf("%w: page id is required", ErrInvalidInput)
	}

	content, err := s.fetcher.FetchPageContent(ctx, pageID)
	if err != nil {
		return "", err
	}
	s.logger.Debug("fetched page content",
		zap.String("pageID", pageID),
		zap.Int("blocks", countBlocks(content.Blocks)),
	)

	return markdown.RenderPage(content), nil
}

func (s *service) Search(ctx context.Context, opts vo.SearchOptions) (*vo.SearchResult, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if opts.PageSize < 0 {
		return nil, fmt.Errorf("%w: page size must not be negative", ErrInvalidInput)
	}

	res, err := s.api.Search(ctx, vo.SearchRequest{
		Query:       opts.Query,
		StartCursor: opts.StartCursor,
		PageSize:    opts.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search for %q: %w", opts.Query, err)
	}

	return formatSearchResponse(res), nil
}

func countBlocks(blocks []vo.Block) int {
	n := len(blocks)
	for _, b := range blocks {
		n += countBlocks(b.Children)
	}
	return n
}
