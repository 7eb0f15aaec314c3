package markdown

import (
	"testing"

	"github.com/foomo/buildin-mcp/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parseGFM parses rendered output the way a GFM consumer would
func parseGFM(t *testing.T, src string) ast.Node {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader([]byte(src)))
	require.NotNil(t, doc)
	return doc
}

func countKinds(t *testing.T, doc ast.Node) map[ast.NodeKind]int {
	t.Helper()
	counts := map[ast.NodeKind]int{}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			counts[n.Kind()]++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return counts
}

func TestRenderedTableIsGFMTable(t *testing.T) {
	content := &vo.PageContent{Blocks: []vo.Block{{
		Type:     vo.BlockTypeTable,
		Data:     vo.BlockData{HasColumnHeader: true},
		Children: []vo.Block{row("A", "B"), row("1"), row("3", "4")},
	}}}

	counts := countKinds(t, parseGFM(t, string(RenderPage(content))))

	assert.Equal(t, 1, counts[extast.KindTable])
	assert.Equal(t, 1, counts[extast.KindTableHeader])
	assert.Equal(t, 2, counts[extast.KindTableRow])
	assert.Equal(t, 6, counts[extast.KindTableCell])
}

func TestRenderedListsNest(t *testing.T) {
	content := &vo.PageContent{Blocks: []vo.Block{
		block(vo.BlockTypeBulletedListItem, "parent",
			block(vo.BlockTypeBulletedListItem, "child",
				vo.Block{Type: vo.BlockTypeToDo, Data: vo.BlockData{RichText: rt("grandchild")}},
			),
		),
	}}

	counts := countKinds(t, parseGFM(t, string(RenderPage(content))))

	assert.Equal(t, 3, counts[ast.KindList])
	assert.Equal(t, 3, counts[ast.KindListItem])
	assert.Equal(t, 1, counts[extast.KindTaskCheckBox])
}

func TestRenderedAnnotationsParse(t *testing.T) {
	content := &vo.PageContent{Blocks: []vo.Block{{
		Type: vo.BlockTypeParagraph,
		Data: vo.BlockData{RichText: []vo.RichText{{
			PlainText:   "styled",
			Annotations: &vo.Annotations{Code: true, Bold: true, Strikethrough: true},
			Href:        "https://example.com",
		}}},
	}}}

	counts := countKinds(t, parseGFM(t, string(RenderPage(content))))

	assert.Equal(t, 1, counts[ast.KindLink])
	assert.Equal(t, 1, counts[extast.KindStrikethrough])
	assert.Equal(t, 1, counts[ast.KindEmphasis])
	assert.Equal(t, 1, counts[ast.KindCodeSpan])
}
