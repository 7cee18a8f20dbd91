package docs

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var frontMatterDelim = []byte("---")

// frontMatter is the YAML metadata block at the top of a markdown document.
type frontMatter struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Related  []string `yaml:"related"`
	Tags     []string `yaml:"tags"`
	Updated  string   `yaml:"updated"`
}

// Parser turns raw markdown files into Documents.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a markdown document parser.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(),
	}
}

// Parse builds a Document from markdown content. relPath is the file's path
// relative to the documents root; it drives the id, category and title
// fallbacks. modTime is used when the front matter has no updated date.
//
// Front matter fields (all optional): id, title, category, related, tags,
// updated. Missing title falls back to the first heading, then the filename;
// missing category falls back to the file's directory path.
func (p *Parser) Parse(content []byte, relPath string, modTime time.Time) (*Document, error) {
	meta, body := splitFrontMatter(content)

	var fm frontMatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, fmt.Errorf("failed to parse front matter in %s: %w", relPath, err)
		}
	}

	doc := &Document{
		ID:       fm.ID,
		Title:    fm.Title,
		Category: fm.Category,
		Body:     string(body),
		Related:  fm.Related,
		Tags:     fm.Tags,
	}

	if doc.ID == "" {
		// Derived from the relative path so re-ingesting the same file
		// replaces the same document instead of accumulating copies.
		sum := sha256.Sum256([]byte(filepath.ToSlash(relPath)))
		doc.ID = fmt.Sprintf("doc_%x", sum[:6])
	}

	if doc.Title == "" {
		doc.Title = p.firstHeading(body)
	}
	if doc.Title == "" {
		doc.Title = titleFromFilename(relPath)
	}

	if doc.Category == "" {
		dir := filepath.Dir(relPath)
		if dir == "." || dir == "" {
			doc.Category = "uncategorized"
		} else {
			doc.Category = filepath.ToSlash(dir)
		}
	}

	doc.UpdatedAt = modTime
	if fm.Updated != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, fm.Updated); err == nil {
				doc.UpdatedAt = ts
				break
			}
		}
	}

	return doc, nil
}

// splitFrontMatter separates a leading YAML front matter block from the body.
// Returns a nil meta slice when no well-formed block is present.
func splitFrontMatter(content []byte) (meta, body []byte) {
	if !bytes.HasPrefix(content, frontMatterDelim) {
		return nil, content
	}

	rest := content[len(frontMatterDelim):]
	if len(rest) == 0 || (rest[0] != '\n' && !bytes.HasPrefix(rest, []byte("\r\n"))) {
		return nil, content
	}
	rest = rest[bytes.IndexByte(rest, '\n')+1:]

	idx := bytes.Index(rest, []byte("\n---"))
	if idx == -1 {
		return nil, content
	}

	meta = rest[:idx]
	body = rest[idx+len("\n---"):]
	if nl := bytes.IndexByte(body, '\n'); nl != -1 {
		body = body[nl+1:]
	} else {
		body = nil
	}
	return meta, body
}

// firstHeading returns the text of the first level-1 heading, or the first
// level-2 heading when no level-1 exists.
func (p *Parser) firstHeading(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	doc := p.md.Parser().Parse(gmtext.NewReader(body))

	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		text := headingText(heading, body)
		if heading.Level == 1 && firstH1 == "" {
			firstH1 = text
			return ast.WalkStop, nil
		}
		if heading.Level == 2 && firstH2 == "" {
			firstH2 = text
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	return firstH2
}

// headingText extracts the plain text of a heading node.
func headingText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// titleFromFilename derives a title from the filename by stripping the
// extension and capitalizing words.
func titleFromFilename(relPath string) string {
	name := filepath.Base(relPath)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
