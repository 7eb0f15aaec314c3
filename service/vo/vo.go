package vo

type Markdown string

type BlockType string

const (
	BlockTypeParagraph        BlockType = "paragraph"
	BlockTypeHeading1         BlockType = "heading_1"
	BlockTypeHeading2         BlockType = "heading_2"
	BlockTypeHeading3         BlockType = "heading_3"
	BlockTypeBulletedListItem BlockType = "bulleted_list_item"
	BlockTypeNumberedListItem BlockType = "numbered_list_item"
	BlockTypeToDo             BlockType = "to_do"
	BlockTypeQuote            BlockType = "quote"
	BlockTypeCode             BlockType = "code"
	BlockTypeDivider          BlockType = "divider"
	BlockTypeImage            BlockType = "image"
	BlockTypeFile             BlockType = "file"
	BlockTypeBookmark         BlockType = "bookmark"
	BlockTypeEmbed            BlockType = "embed"
	BlockTypeCallout          BlockType = "callout"
	BlockTypeEquation         BlockType = "equation"
	BlockTypeToggle           BlockType = "toggle"
	BlockTypeTable            BlockType = "table"
	BlockTypeTableRow         BlockType = "table_row"
	BlockTypeColumnList       BlockType = "column_list"
	BlockTypeColumn           BlockType = "column"
	BlockTypeChildPage        BlockType = "child_page"
	BlockTypeChildDatabase    BlockType = "child_database"
	BlockTypeLinkToPage       BlockType = "link_to_page"
	BlockTypeSyncedBlock      BlockType = "synced_block"
	BlockTypeTemplate         BlockType = "template"
)

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// RichText is a single styled run of text.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text"`
	Href        string       `json:"href,omitempty"`
}

type FileRef struct {
	URL string `json:"url"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// BlockData is the union of all type specific block payloads
type BlockData struct {
	RichText        []RichText   `json:"rich_text,omitempty"`
	Checked         bool         `json:"checked,omitempty"`           // to_do
	Language        string       `json:"language,omitempty"`          // code
	URL             string       `json:"url,omitempty"`               // image, file, bookmark, embed
	File            *FileRef     `json:"file,omitempty"`              // hosted image or file
	External        *FileRef     `json:"external,omitempty"`          // external image or file
	Caption         []RichText   `json:"caption,omitempty"`           // image, file, bookmark, embed
	Icon            *Icon        `json:"icon,omitempty"`              // callout
	Expression      string       `json:"expression,omitempty"`        // equation
	HasColumnHeader bool         `json:"has_column_header,omitempty"` // table
	HasRowHeader    bool         `json:"has_row_header,omitempty"`    // table
	Cells           [][]RichText `json:"cells,omitempty"`             // table_row
	Title           string       `json:"title,omitempty"`             // child_page, child_database
	PageID          string       `json:"page_id,omitempty"`           // link_to_page
}

type Block struct {
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`
	Data        BlockData `json:"data"`
	Children    []Block   `json:"children,omitempty"` // attached by the fetcher, in document order
}

// BlockChildren is one page of a block children listing
type BlockChildren struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

type PropertyValue struct {
	ID    string     `json:"id,omitempty"`
	Type  string     `json:"type"`
	Title []RichText `json:"title,omitempty"`
}

type Page struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url,omitempty"`
	Parent     *Parent                  `json:"parent,omitempty"`
	Properties map[string]PropertyValue `json:"properties,omitempty"`
}

// PageContent is a page together with its fully fetched block forest
type PageContent struct {
	Page   Page    `json:"page"`
	Blocks []Block `json:"blocks"`
}

type SearchRequest struct {
	Query       string `json:"query"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type SearchResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type SearchOptions struct {
	Query       string `json:"query"`                 // Search query
	StartCursor string `json:"startCursor,omitempty"` // Pagination cursor for the next page of results
	PageSize    int    `json:"pageSize,omitempty"`    // Number of results per page
}

type ResourceLink struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType"`
}

type SearchResult struct {
	Results    []ResourceLink `json:"results"`
	NextCursor string         `json:"nextCursor,omitempty"`
	HasMore    bool           `json:"hasMore"`
}
