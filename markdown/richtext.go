package markdown

import (
	"strings"

	"github.com/foomo/buildin-mcp/service/vo"
)

// RenderRichText converts rich text runs into inline markdown.
// Style markers are applied code, bold, italic, strikethrough and the link
// always wraps the styled text. Empty runs render as nothing.
func RenderRichText(richText []vo.RichText) string {
	var sb strings.Builder
	for _, item := range richText {
		sb.WriteString(renderSpan(item))
	}
	return sb.String()
}

func renderSpan(item vo.RichText) string {
	text := item.PlainText
	if text == "" {
		return ""
	}

	if a := item.Annotations; a != nil {
		if a.Code {
			text = "`" + text + "`"
		}
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "*" + text + "*"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
	}

	if item.Href != "" {
		text = "[" + text + "](" + item.Href + ")"
	}
	return text
}

// renderIcon returns the emoji of an icon, other icon kinds render as nothing
func renderIcon(icon *vo.Icon) string {
	if icon == nil || icon.Type != "emoji" {
		return ""
	}
	return icon.Emoji
}

// plainText joins the unstyled text of all runs
func plainText(richText []vo.RichText) string {
	var sb strings.Builder
	for _, item := range richText {
		sb.WriteString(item.PlainText)
	}
	return sb.String()
}
