package importer

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/progress"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// Result summarises an import run.
type Result struct {
	Imported []documents.Document
	// Skipped lists files that held no sequence diagram.
	Skipped []string
	// Duplicates counts diagrams whose text was already imported in this run.
	Duplicates int
}

// Import creates one document per sequence diagram in files. Standalone
// Mermaid files become a document named after the file; Markdown files
// contribute one document per ```mermaid sequence diagram block.
func Import(ctx context.Context, store *documents.Store, files []File, rep progress.Reporter) (*Result, error) {
	if rep == nil {
		rep = progress.Discard{}
	}
	res := &Result{}
	seen := make(map[[32]byte]bool)

	rep.Start(len(files))
	defer rep.Finish()

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep.Update(i+1, f.RelPath)

		data, err := os.ReadFile(f.Path)
		if err != nil {
			log.Printf("importer: reading %s: %v", f.RelPath, err)
			res.Skipped = append(res.Skipped, f.RelPath)
			continue
		}

		diagrams := Diagrams(f.RelPath, data)
		if len(diagrams) == 0 {
			res.Skipped = append(res.Skipped, f.RelPath)
			continue
		}
		for _, d := range diagrams {
			sum := sha256.Sum256([]byte(strings.TrimSpace(d.Content)))
			if seen[sum] {
				res.Duplicates++
				continue
			}
			seen[sum] = true

			doc, err := store.Create(ctx, d.Title, d.Content)
			if err != nil {
				return res, fmt.Errorf("importing %s: %w", f.RelPath, err)
			}
			res.Imported = append(res.Imported, *doc)
		}
	}
	return res, nil
}

// Diagrams returns the sequence diagrams held by a file, titled for use
// as document names.
func Diagrams(relPath string, data []byte) []Block {
	base := path.Base(relPath)
	name := strings.TrimSuffix(base, path.Ext(base))

	if strings.EqualFold(path.Ext(base), ".md") {
		blocks := ExtractMarkdown(data)
		for i := range blocks {
			if blocks[i].Title == "" {
				blocks[i].Title = name
			}
			if len(blocks) > 1 {
				blocks[i].Title = fmt.Sprintf("%s (%d)", blocks[i].Title, i+1)
			}
		}
		return blocks
	}

	content := string(data)
	if !seqtext.HasHeader(content) {
		return nil
	}
	return []Block{{Title: name, Content: strings.TrimRight(content, "\n")}}
}
