package importer

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// Block is a sequence diagram found inside a Markdown file.
type Block struct {
	// Title is the text of the nearest heading above the block, if any.
	Title   string
	Content string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExtractMarkdown returns the ```mermaid fenced blocks of src that hold
// sequence diagrams, in document order.
func ExtractMarkdown(src []byte) []Block {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var blocks []Block
	var heading string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			heading = plainText(node, src)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if !strings.EqualFold(string(node.Language(src)), "mermaid") {
				return ast.WalkSkipChildren, nil
			}
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			content := strings.TrimRight(buf.String(), "\n")
			if seqtext.HasHeader(content) {
				blocks = append(blocks, Block{Title: heading, Content: content})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// plainText concatenates the text segments under n.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
