package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

// Parser converts pasted, indentation- and glyph-delimited text into a
// structure tree
type Parser struct {
	leaf models.NodeKind
}

// New creates a Parser whose non-folder lines become nodes of the given kind
func New(leaf models.NodeKind) *Parser {
	if leaf == "" || leaf == models.KindFolder {
		leaf = models.KindFile
	}
	return &Parser{leaf: leaf}
}

// ForTree creates a Parser for the leaf kind of the given tree
func ForTree(kind models.TreeKind) *Parser {
	return New(kind.LeafKind())
}

// line is one classified input line
type line struct {
	raw      string
	indent   int
	name     string
	isFolder bool
}

// ParseFile reads a text file and parses it
func (p *Parser) ParseFile(filepath string) (models.Structure, error) {
	logger.Debug("Reading structure text file", map[string]interface{}{
		"filepath": filepath,
	})

	data, err := os.ReadFile(filepath)
	if err != nil {
		return models.EmptyStructure(), fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(string(data)), nil
}

// Parse builds a structure from text. It never fails: irregular
// indentation attaches a line to the nearest ancestor with a strictly
// smaller indent, and empty input gives an empty structure.
func (p *Parser) Parse(text string) models.Structure {
	lines := p.classify(text)
	s := build(lines, p.leaf)

	logger.Debug("Parsed structure text", map[string]interface{}{
		"lines": len(lines),
		"roots": len(s.Folders),
	})
	return s
}

func (p *Parser) classify(text string) []line {
	var out []line
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || IsNoiseLine(trimmed) {
			continue
		}

		name := norm.NFC.String(StripGlyphs(raw))
		if name == "" {
			continue
		}

		folder := IsFolderName(name)
		if folder {
			name = strings.TrimSpace(strings.TrimSuffix(name, "/"))
			if name == "" {
				continue
			}
		}

		out = append(out, line{
			raw:      raw,
			indent:   Indent(raw),
			name:     name,
			isFolder: folder,
		})
	}
	return out
}

type buildNode struct {
	node     models.TreeNode
	children []*buildNode
}

type frame struct {
	children *[]*buildNode
	indent   int
}

func build(lines []line, leaf models.NodeKind) models.Structure {
	var roots []*buildNode
	stack := []frame{{children: &roots, indent: -1}}

	for _, l := range lines {
		for len(stack) > 1 && stack[len(stack)-1].indent >= l.indent {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]

		kind := leaf
		if l.isFolder {
			kind = models.KindFolder
		}
		bn := &buildNode{node: models.NewNode(l.name, kind)}
		*top.children = append(*top.children, bn)

		if l.isFolder {
			stack = append(stack, frame{children: &bn.children, indent: l.indent})
		}
	}

	return models.Structure{Folders: flatten(roots)}
}

func flatten(nodes []*buildNode) []models.TreeNode {
	out := make([]models.TreeNode, 0, len(nodes))
	for _, bn := range nodes {
		n := bn.node
		if n.IsFolder() {
			n.Children = flatten(bn.children)
		}
		out = append(out, n)
	}
	return out
}

var noiseLines = map[string]bool{
	"app structure":      true,
	"practice scenarios": true,
	"structure":          true,
	"features/":          true,
}

// IsNoiseLine reports whether a trimmed line is a header or decoration
// that carries no node: known section titles (optionally as a markdown
// heading or with a trailing colon), a bare "features/" line, and
// markdown code fences.
func IsNoiseLine(trimmed string) bool {
	if strings.HasPrefix(trimmed, "```") {
		return true
	}
	title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	title = strings.TrimSuffix(title, ":")
	return noiseLines[strings.ToLower(title)]
}

// Indent counts leading space characters. Tabs are not expanded and
// end the count.
func Indent(raw string) int {
	n := 0
	for n < len(raw) && raw[n] == ' ' {
		n++
	}
	return n
}

var glyphPrefix = regexp.MustCompile(`^[\s\x{00A0}\x{2500}-\x{257F}|\-\x{2013}\x{2014}\x{2022}*+]+`)

// StripGlyphs removes the leading run of tree-drawing glyphs (box-drawing
// characters, dashes, pipes, bullets) and surrounding whitespace
func StripGlyphs(raw string) string {
	return strings.TrimSpace(glyphPrefix.ReplaceAllString(raw, ""))
}

var upperName = regexp.MustCompile(`^[A-Z0-9_\- ]+$`)
var hasUpper = regexp.MustCompile(`[A-Z]`)

// IsFolderName classifies a glyph-stripped name. A name is a folder when
// it ends with "/", or when, without a trailing "/", it is written in
// upper case (letters, digits, underscores, spaces and hyphens, with at
// least one letter), as in "AUTHENTICATION FLOW" or "SHARED_UI".
func IsFolderName(name string) bool {
	if strings.HasSuffix(name, "/") {
		return true
	}
	return IsUpperCaseName(name)
}

// IsUpperCaseName reports whether name is written entirely in upper case
func IsUpperCaseName(name string) bool {
	return upperName.MatchString(name) && hasUpper.MatchString(name)
}

// Render writes s in the indented form Parse accepts: two spaces per
// level and a trailing "/" on folders
func Render(s models.Structure) string {
	var b strings.Builder
	var walk func(nodes []models.TreeNode, depth int)
	walk = func(nodes []models.TreeNode, depth int) {
		for _, n := range nodes {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(n.Name)
			if n.IsFolder() {
				b.WriteString("/")
			}
			b.WriteString("\n")
			if n.IsFolder() {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(s.Folders, 0)
	return b.String()
}
