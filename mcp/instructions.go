package mcp

// Instructions tells the calling agent how to use the search tool and the
// page resources together.
const Instructions = `You have access to Buildin.ai, a Notion-like knowledge base. Use it to find and read documentation.

## Capabilities

### Tool: ` + "`search`" + `
Finds pages by keyword or topic.

Returns resource links to the matching pages. Each link carries:
- the page title and id
- the parent context (the database or page the result belongs to)
- the URI to read the full content

Tips:
- Prefer specific, descriptive search terms.
- When the result says "More results available", call search again with the given cursor as ` + "`startCursor`" + `.
- Look at the titles first and only read the pages that look relevant.

### Resource: ` + "`buildin:///pages/{pageId}`" + `
The full content of a page as markdown.

The markdown contains:
- the page title as a heading
- paragraphs, headings, lists, to-dos, code blocks, tables, images, callouts, quotes, toggles and equations
- inline formatting: bold, italic, strikethrough, inline code and links
- nested structure such as indented lists and toggle contents

## Workflow

1. Search for the topic.
2. Pick the best matches by title and parent context.
3. Read the pages through their ` + "`buildin:///pages/{pageId}`" + ` URI.
4. Page through more results with ` + "`startCursor`" + ` when needed.

Notes:
- "From database: ..." in a description means the page is a database entry.
- "Child of page: ..." means the page is nested below another page.
- If nothing is found, retry with broader or alternative keywords.
- Code blocks keep their language hint.
`
