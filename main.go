package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scholarmd/scholarmd/cite"
	"github.com/scholarmd/scholarmd/config"
	"github.com/scholarmd/scholarmd/convert"
	"github.com/scholarmd/scholarmd/docx"
)

// Server identity constants.
const (
	serverName    = "scholarmd"
	serverVersion = "0.1.0"
)

// MCP tool parameter key constants — shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argPath         = "path"
	argMarkdown     = "markdown"
	argOutputPath   = "output_path"
	argBibliography = "bibliography"
)

func main() {
	cfg := config.Load()
	s := server.NewMCPServer(serverName, serverVersion)
	registerTools(s, cfg)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v\n", err)
	}
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *server.MCPServer, cfg *config.Config) {
	// docx_to_markdown — convert a document to dialect Markdown
	s.AddTool(
		mcp.NewTool("docx_to_markdown",
			mcp.WithDescription("Convert a .docx document to Markdown. "+
				"Equations become LaTeX ($...$ / $$...$$), Zotero citation fields become "+
				"[@key] citation groups, and the extracted bibliography is appended as BibTeX."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the .docx file to convert"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path, ok := req.Params.Arguments[argPath].(string)
			if !ok || path == "" {
				return mcp.NewToolResultError(argPath + " is required"), nil
			}
			if err := checkFileSize(path, cfg); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			res, err := convert.DocxToMarkdown(ctx, path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			for _, w := range res.Warnings {
				log.Printf("%s: %s", path, w)
			}
			out := res.Markdown
			if res.Bibliography.Len() > 0 {
				out += "\n<!-- bibliography -->\n```bibtex\n" + res.BibTeX + "```\n"
			}
			return mcp.NewToolResultText(out), nil
		},
	)

	// markdown_to_docx — build a document from dialect Markdown
	s.AddTool(
		mcp.NewTool("markdown_to_docx",
			mcp.WithDescription("Convert dialect Markdown to a .docx document. "+
				"Citation groups ([@key]) are rebuilt as live Zotero fields when the keys "+
				"resolve against the given BibTeX bibliography."),
			mcp.WithString(argMarkdown,
				mcp.Required(),
				mcp.Description("Markdown source text"),
			),
			mcp.WithString(argOutputPath,
				mcp.Required(),
				mcp.Description("Absolute path to write the .docx file to"),
			),
			mcp.WithString(argBibliography,
				mcp.Description("Absolute path of a .bib file resolving the cited keys"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			src, ok := req.Params.Arguments[argMarkdown].(string)
			if !ok || src == "" {
				return mcp.NewToolResultError(argMarkdown + " is required"), nil
			}
			outPath, ok := req.Params.Arguments[argOutputPath].(string)
			if !ok || outPath == "" {
				return mcp.NewToolResultError(argOutputPath + " is required"), nil
			}

			store, err := loadBibliography(req.Params.Arguments[argBibliography])
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			res, err := convert.MarkdownToDocx(ctx, src, store)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := os.WriteFile(outPath, res.Docx, 0o644); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("write %s: %v", outPath, err)), nil
			}

			msg := fmt.Sprintf("wrote %s (%d bytes)", outPath, len(res.Docx))
			if len(res.Warnings) > 0 {
				msg += "\nwarnings:\n- " + strings.Join(res.Warnings, "\n- ")
			}
			return mcp.NewToolResultText(msg), nil
		},
	)

	// get_conversion_info — inspect a document or report capabilities
	s.AddTool(
		mcp.NewTool("get_conversion_info",
			mcp.WithDescription("Without arguments: report conversion capabilities and active "+
				"configuration. With a path: count the citations, equations, and tables in a "+
				".docx document without converting it."),
			mcp.WithString(argPath,
				mcp.Description("Optional absolute path of a .docx file to inspect"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			path, _ := req.Params.Arguments[argPath].(string)
			if path == "" {
				return mcp.NewToolResultText(capabilityInfo(cfg)), nil
			}
			info, err := inspectDocument(ctx, path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(info), nil
		},
	)
}

func checkFileSize(path string, cfg *config.Config) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Size() > cfg.MaxFileSizeBytes {
		return fmt.Errorf("%s exceeds the %d MB size limit", path, cfg.MaxFileSizeMB())
	}
	return nil
}

func loadBibliography(arg any) (*cite.Store, error) {
	path, _ := arg.(string)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bibliography %s: %w", path, err)
	}
	defer f.Close()
	store, err := cite.ParseBibTeX(f)
	if err != nil {
		return nil, fmt.Errorf("parse bibliography %s: %w", path, err)
	}
	return store, nil
}

func capabilityInfo(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString("scholarmd converts between .docx and dialect Markdown.\n\n")
	sb.WriteString("Forward (.docx → Markdown): headings, lists, tables, block quotes,\n")
	sb.WriteString("code blocks, hyperlinks, OMML equations (to LaTeX), Zotero citation\n")
	sb.WriteString("fields (to [@key] groups plus BibTeX), reviewer comments (to Critic\n")
	sb.WriteString("Markup).\n\n")
	sb.WriteString("Reverse (Markdown → .docx): the same block and inline structures;\n")
	sb.WriteString("citation groups become live Zotero fields; math is embedded as\n")
	sb.WriteString("literal notation.\n\n")
	fmt.Fprintf(&sb, "Max file size: %d MB\n", cfg.MaxFileSizeMB())
	if cfg.CitationStyle != "" {
		fmt.Fprintf(&sb, "Default citation style: %s\n", cfg.CitationStyle)
	}
	return sb.String()
}

// inspectDocument reports citation, equation, and table counts for a package.
func inspectDocument(ctx context.Context, path string) (string, error) {
	pkg, err := docx.Open(ctx, path)
	if err != nil {
		return "", err
	}

	codes, warnings := cite.ExtractFieldCodes(pkg.Document)
	cited := map[string]bool{}
	for _, fc := range codes {
		for _, item := range fc.Items {
			cited[string(item.ID)] = true
		}
	}
	equations := len(xmlquery.Find(pkg.Document, "//*[local-name()='oMath']")) +
		len(xmlquery.Find(pkg.Document, "//*[local-name()='oMathPara']"))
	tables := len(xmlquery.Find(pkg.Document, "//*[local-name()='tbl']"))

	var sb strings.Builder
	fmt.Fprintf(&sb, "citations: %d groups, %d distinct items\n", len(codes), len(cited))
	for _, fc := range codes {
		if formatted := cite.FormattedToMarkdown(fc.Properties.FormattedCitation); formatted != "" {
			fmt.Fprintf(&sb, "  %s\n", formatted)
		}
	}
	fmt.Fprintf(&sb, "equations: %d\n", equations)
	fmt.Fprintf(&sb, "tables: %d\n", tables)
	fmt.Fprintf(&sb, "comments: %d\n", len(pkg.Comments))
	for _, w := range warnings {
		fmt.Fprintf(&sb, "warning: %s\n", w)
	}
	return sb.String(), nil
}
