// Package markdown renders fetched Buildin block trees as markdown.
//
// Rendering never fails: missing or malformed block data falls back to
// empty strings or placeholder values.
package markdown

import (
	"strings"

	"github.com/foomo/buildin-mcp/service/vo"
)

const indentUnit = "  "

// RenderPage renders the page title as a level one heading followed by all
// blocks in document order.
func RenderPage(content *vo.PageContent) vo.Markdown {
	if content == nil {
		return ""
	}

	var sb strings.Builder
	if title := pageTitle(content.Page); title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	sb.WriteString(RenderBlocks(content.Blocks, 0))

	return vo.Markdown(strings.TrimSpace(sb.String()))
}

// pageTitle looks up the title property under either of its conventional keys
func pageTitle(page vo.Page) string {
	prop, ok := page.Properties["title"]
	if !ok {
		prop, ok = page.Properties["Title"]
	}
	if !ok || prop.Type != "title" {
		return ""
	}
	return plainText(prop.Title)
}

// RenderBlocks renders a block forest at the given list nesting depth.
func RenderBlocks(blocks []vo.Block, depth int) string {
	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(RenderBlock(block, depth))
	}
	return sb.String()
}

// RenderBlock renders a single block and its children. depth counts list and
// to-do nesting only, container blocks such as columns keep the depth of
// their parent.
func RenderBlock(block vo.Block, depth int) string {
	indent := strings.Repeat(indentUnit, depth)
	data := block.Data
	text := RenderRichText(data.RichText)

	switch block.Type {
	case vo.BlockTypeParagraph:
		if text == "" {
			return "\n"
		}
		return text + "\n\n"

	case vo.BlockTypeHeading1:
		return "# " + text + "\n\n"
	case vo.BlockTypeHeading2:
		return "## " + text + "\n\n"
	case vo.BlockTypeHeading3:
		return "### " + text + "\n\n"

	case vo.BlockTypeBulletedListItem:
		return indent + "- " + text + "\n" + RenderBlocks(block.Children, depth+1)
	case vo.BlockTypeNumberedListItem:
		return indent + "1. " + text + "\n" + RenderBlocks(block.Children, depth+1)
	case vo.BlockTypeToDo:
		checked := " "
		if data.Checked {
			checked = "x"
		}
		return indent + "- [" + checked + "] " + text + "\n" + RenderBlocks(block.Children, depth+1)

	case vo.BlockTypeQuote:
		return renderQuote(text, block.Children)

	case vo.BlockTypeCode:
		return "```" + data.Language + "\n" + text + "\n```\n\n"

	case vo.BlockTypeDivider:
		return "---\n\n"

	case vo.BlockTypeImage:
		return "![" + RenderRichText(data.Caption) + "](" + mediaURL(data) + ")\n\n"

	case vo.BlockTypeFile:
		caption := RenderRichText(data.Caption)
		if caption == "" {
			caption = "File"
		}
		return "[" + caption + "](" + mediaURL(data) + ")\n\n"

	case vo.BlockTypeBookmark, vo.BlockTypeEmbed:
		caption := RenderRichText(data.Caption)
		if caption == "" {
			caption = data.URL
		}
		return "[" + caption + "](" + data.URL + ")\n\n"

	case vo.BlockTypeCallout:
		prefix := ""
		if icon := renderIcon(data.Icon); icon != "" {
			prefix = icon + " "
		}
		return "> " + prefix + text + "\n\n"

	case vo.BlockTypeEquation:
		return "$$\n" + data.Expression + "\n$$\n\n"

	case vo.BlockTypeToggle:
		return "<details>\n<summary>" + text + "</summary>\n\n" +
			RenderBlocks(block.Children, 0) +
			"</details>\n\n"

	case vo.BlockTypeTable:
		return renderTable(block)

	case vo.BlockTypeTableRow:
		// rows are consumed by their table
		return ""

	case vo.BlockTypeColumnList, vo.BlockTypeColumn, vo.BlockTypeSyncedBlock, vo.BlockTypeTemplate:
		return RenderBlocks(block.Children, depth)

	case vo.BlockTypeChildPage:
		return "📄 **" + withDefault(data.Title, "Untitled") + "**\n\n"

	case vo.BlockTypeChildDatabase:
		return "🗃️ **" + withDefault(data.Title, "Untitled Database") + "**\n\n"

	case vo.BlockTypeLinkToPage:
		return "🔗 [Page Link](" + data.PageID + ")\n\n"

	default:
		if text == "" {
			return ""
		}
		return text + "\n\n"
	}
}

// renderQuote prefixes every line of the quote text and of its rendered
// children with "> " so both end up in a single blockquote.
func renderQuote(text string, children []vo.Block) string {
	lines := prefixLines(text, "> ")
	if len(children) == 0 {
		return lines + "\n\n"
	}
	return lines + "\n" + prefixLines(RenderBlocks(children, 0), "> ") + "\n\n"
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// mediaURL resolves the url of image and file blocks
func mediaURL(data vo.BlockData) string {
	switch {
	case data.URL != "":
		return data.URL
	case data.File != nil && data.File.URL != "":
		return data.File.URL
	case data.External != nil:
		return data.External.URL
	default:
		return ""
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
