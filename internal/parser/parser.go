package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sokinpui/treedoc/internal/format"
	"github.com/sokinpui/treedoc/model"
)

// Document holds what a parse learned about the document as a whole.
type Document struct {
	// Root is the directory named by the header line. Informational only.
	Root string
	// Files counts the file records emitted.
	Files int
}

// Parse scans r line by line and calls emit once per file record, in
// document order. A record is emitted when its end marker is seen, when the
// next file marker starts, or at end of input.
//
// Only exact marker lines are structural. Every other line between a content
// start and the following end marker is file content, kept verbatim.
func Parse(r io.Reader, emit func(model.FileRecord)) (Document, error) {
	p := &scanner{emit: emit}
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			p.line(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.flush()
			return p.doc, fmt.Errorf("failed to read document: %w", err)
		}
	}

	p.flush()
	return p.doc, nil
}

type scanner struct {
	doc     Document
	emit    func(model.FileRecord)
	current *model.FileRecord
	buf     bytes.Buffer
}

func (p *scanner) line(line string) {
	kind, value := format.Classify(line)

	switch kind {
	case model.KindRoot:
		p.doc.Root = value
	case model.KindDirectory:
		// Directories are created by the file writes below them.
	case model.KindFile:
		p.flush()
		p.current = &model.FileRecord{RelativePath: value}
		p.buf.Reset()
	case model.KindFullPath:
		if p.current != nil {
			p.current.FullPath = value
		}
	case model.KindHidden:
		if p.current != nil {
			p.current.Hidden = value == "Yes"
		}
	case model.KindContentStart:
		p.buf.Reset()
	case model.KindContentEnd:
		p.flush()
	case model.KindNotText, model.KindReadError:
		// Placeholders stand in for content that was never written.
	default:
		if p.current != nil {
			p.buf.WriteString(line)
		}
	}
}

// flush emits the open record, if any, and clears it.
func (p *scanner) flush() {
	if p.current == nil {
		return
	}
	rec := *p.current
	rec.Content = trimSeparator(p.buf.Bytes())
	p.current = nil
	p.buf.Reset()

	p.doc.Files++
	p.emit(rec)
}

// trimSeparator drops the single newline the consolidator writes between a
// file's content and its end marker.
func trimSeparator(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
