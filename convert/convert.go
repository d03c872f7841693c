package convert

// Conversion façade. Each call builds all of its state fresh, so concurrent
// conversions never share anything.

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/scholarmd/scholarmd/cite"
	"github.com/scholarmd/scholarmd/docx"
)

// Result is the outcome of a document → markup conversion.
type Result struct {
	Markdown     string
	Bibliography *cite.Store
	BibTeX       string
	Warnings     []string
}

// BuildResult is the outcome of a markup → document conversion.
type BuildResult struct {
	Docx     []byte
	Warnings []string
}

// DocxToMarkdown converts the package at path into dialect text plus the
// bibliography extracted from its citation fields.
func DocxToMarkdown(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DocxBytesToMarkdown(ctx, data)
}

// DocxBytesToMarkdown converts an in-memory package.
func DocxBytesToMarkdown(ctx context.Context, data []byte) (*Result, error) {
	pkg, err := docx.OpenBytes(ctx, data)
	if err != nil {
		return nil, err
	}

	w := newWalker(pkg)
	items, err := w.walk(ctx)
	if err != nil {
		return nil, err
	}

	meta := Meta{Title: pkg.Core.Title, Author: pkg.Core.Creator}
	return &Result{
		Markdown:     buildMarkdown(items, meta),
		Bibliography: w.store,
		BibTeX:       cite.RenderBibTeX(w.store),
		Warnings:     w.warnings,
	}, nil
}

// MarkdownToDocx converts dialect text into a package. Citation keys resolve
// against store; pass nil when the source cites nothing.
func MarkdownToDocx(ctx context.Context, src string, store *cite.Store) (*BuildResult, error) {
	if store == nil {
		store = cite.NewStore()
	}

	items, meta, warnings, err := parseMarkup(src)
	if err != nil {
		return nil, err
	}

	b := newBuilder(store)
	doc, opts := b.build(items, meta)

	var buf bytes.Buffer
	if err := docx.WritePackage(ctx, &buf, doc, opts); err != nil {
		return nil, err
	}
	return &BuildResult{
		Docx:     buf.Bytes(),
		Warnings: append(warnings, b.warnings...),
	}, nil
}
