package service

import (
	"context"
	"fmt"

	"github.com/foomo/buildin-mcp/buildin"
	"github.com/foomo/buildin-mcp/service/vo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BlockSource is the part of the Buildin API the fetcher reads from
type BlockSource interface {
	GetPage(ctx context.Context, pageID string) (*vo.Page, error)
	GetBlockChildren(ctx context.Context, blockID, cursor string) (*vo.BlockChildren, error)
}

// Fetcher assembles the complete block tree of a page.
type Fetcher struct {
	source      BlockSource
	concurrency int
}

type FetcherOption func(*Fetcher)

// WithConcurrency allows up to n block children requests in flight across the
// whole page. The default of 1 fetches depth first, one branch after the other.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

func NewFetcher(source BlockSource, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:      source,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPageContent loads the page metadata and every descendant block.
// Any failed remote call aborts the whole fetch.
func (f *Fetcher) FetchPageContent(ctx context.Context, pageID string) (*vo.PageContent, error) {
	page, err := f.source.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, err)
	}

	run := &treeFetch{source: f.source, concurrency: f.concurrency}
	if f.concurrency > 1 {
		run.sem = semaphore.NewWeighted(int64(f.concurrency))
	}

	blocks, err := run.fetchChildren(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if err := run.fetchTree(ctx, blocks); err != nil {
		return nil, err
	}

	return &vo.PageContent{
		Page:   *page,
		Blocks: blocks,
	}, nil
}

// treeFetch holds the state of a single page fetch. sem is shared by every
// level of the tree.
type treeFetch struct {
	source      BlockSource
	concurrency int
	sem         *semaphore.Weighted
}

func (t *treeFetch) getBlockChildren(ctx context.Context, blockID, cursor string) (*vo.BlockChildren, error) {
	if t.sem == nil {
		return t.source.GetBlockChildren(ctx, blockID, cursor)
	}
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer t.sem.Release(1)
	return t.source.GetBlockChildren(ctx, blockID, cursor)
}

// fetchChildren pulls every page of a block children listing in order
func (t *treeFetch) fetchChildren(ctx context.Context, blockID string) ([]vo.Block, error) {
	var (
		blocks []vo.Block
		cursor string
	)
	seen := map[string]struct{}{}
	for {
		res, err := t.getBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", blockID, err)
		}
		if res == nil {
			return blocks, nil
		}
		blocks = append(blocks, res.Results...)

		if !res.HasMore || res.NextCursor == "" {
			return blocks, nil
		}
		if _, ok := seen[res.NextCursor]; ok {
			return nil, &buildin.TransportError{
				Op:      "getBlockChildren",
				Message: fmt.Sprintf("cursor %q for %s was already visited", res.NextCursor, blockID),
			}
		}
		seen[res.NextCursor] = struct{}{}
		cursor = res.NextCursor
	}
}

// fetchTree attaches the children of every block that has some
func (t *treeFetch) fetchTree(ctx context.Context, blocks []vo.Block) error {
	if t.concurrency <= 1 {
		for i := range blocks {
			if err := t.fetchSubtree(ctx, &blocks[i]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i := range blocks {
		g.Go(func() error {
			return t.fetchSubtree(gctx, &blocks[i])
		})
	}
	return g.Wait()
}

func (t *treeFetch) fetchSubtree(ctx context.Context, block *vo.Block) error {
	if !block.HasChildren || block.ID == "" {
		block.Children = nil
		return nil
	}

	children, err := t.fetchChildren(ctx, block.ID)
	if err != nil {
		return err
	}
	if err := t.fetchTree(ctx, children); err != nil {
		return err
	}
	block.Children = children
	return nil
}
