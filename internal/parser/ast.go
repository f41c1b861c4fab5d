package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sokinpui/treedoc/internal/format"
	"github.com/sokinpui/treedoc/model"
)

// Unwrap returns the consolidation document inside source. Documents pasted
// from a chat window usually arrive inside a fenced code block, possibly with
// prose around it; in that case the largest fenced block that contains a
// file or root marker is returned. Source that already starts with a marker
// line is returned unchanged, as is source with no matching block.
func Unwrap(source []byte) []byte {
	if startsWithMarker(source) {
		return source
	}

	var best []byte
	for _, block := range extractFencedBlocks(source) {
		if !bytes.Contains(block, []byte(format.FilePrefix)) && !bytes.Contains(block, []byte(format.RootPrefix)) {
			continue
		}
		if len(block) > len(best) {
			best = block
		}
	}
	if best == nil {
		return source
	}
	return best
}

func startsWithMarker(source []byte) bool {
	for _, line := range strings.Split(string(source), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kind, _ := format.Classify(line)
		return kind != model.KindContent
	}
	return false
}

// extractFencedBlocks uses a markdown AST to collect the raw content of every
// fenced code block.
func extractFencedBlocks(source []byte) [][]byte {
	var blocks [][]byte
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		blocks = append(blocks, content.Bytes())
		return ast.WalkSkipChildren, nil
	}

	// The walker never fails.
	_ = ast.Walk(root, walker)
	return blocks
}
