// Package format defines the line-oriented consolidation document: the
// reserved marker lines, how a line is classified, and how records are
// written. Both the consolidator and the restorer go through this package so
// that whatever one emits the other can parse.
//
// Content lines that happen to match a marker exactly are misread on restore.
// The format has no escaping.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sokinpui/treedoc/model"
)

const (
	RootPrefix      = "# Root Directory: "
	DirectoryPrefix = "# Directory: "
	FilePrefix      = "# File: "
	FullPathPrefix  = "# Full path: "
	HiddenPrefix    = "# Hidden: "
	ContentStart    = "# --- Start of file content ---"
	ContentEnd      = "# --- End of file content ---"

	NotTextLine     = "# This file is not a text file and its content cannot be displayed here."
	ReadErrorPrefix = "# Error reading file: "

	// NotTextReason is the error log message for files that are not UTF-8.
	NotTextReason = "Not a text file"
)

// Classify reports what kind of record a document line is and, for markers
// that carry a value, returns that value. The line may still hold its
// trailing newline.
func Classify(line string) (model.RecordKind, string) {
	l := strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(l, "# ") {
		return model.KindContent, ""
	}

	switch {
	case strings.HasPrefix(l, RootPrefix):
		return model.KindRoot, strings.TrimSpace(l[len(RootPrefix):])
	case strings.HasPrefix(l, DirectoryPrefix):
		return model.KindDirectory, strings.TrimSpace(l[len(DirectoryPrefix):])
	case strings.HasPrefix(l, FilePrefix):
		return model.KindFile, strings.TrimSpace(l[len(FilePrefix):])
	case strings.HasPrefix(l, FullPathPrefix):
		return model.KindFullPath, strings.TrimSpace(l[len(FullPathPrefix):])
	case strings.HasPrefix(l, HiddenPrefix):
		return model.KindHidden, strings.TrimSpace(l[len(HiddenPrefix):])
	case strings.HasPrefix(l, ContentStart):
		return model.KindContentStart, ""
	case strings.HasPrefix(l, ContentEnd):
		return model.KindContentEnd, ""
	case l == NotTextLine:
		return model.KindNotText, ""
	case strings.HasPrefix(l, ReadErrorPrefix):
		return model.KindReadError, l[len(ReadErrorPrefix):]
	}
	return model.KindContent, ""
}

// Writer emits a consolidation document.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer that buffers output to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (dw *Writer) printf(format string, a ...any) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, format, a...)
}

// Header writes the root directory line and the blank line after it.
func (dw *Writer) Header(root string) {
	dw.printf("%s%s\n\n", RootPrefix, root)
}

// Directory writes a directory marker preceded by a blank line.
func (dw *Writer) Directory(rel string) {
	dw.printf("\n%s%s\n", DirectoryPrefix, rel)
}

// BeginFile writes the metadata lines of a file block up to and including
// the content start marker.
func (dw *Writer) BeginFile(rec model.FileRecord) {
	hidden := "No"
	if rec.Hidden {
		hidden = "Yes"
	}
	dw.printf("\n%s%s\n", FilePrefix, rec.RelativePath)
	dw.printf("%s%s\n", FullPathPrefix, rec.FullPath)
	dw.printf("%s%s\n", HiddenPrefix, hidden)
	dw.printf("%s\n", ContentStart)
}

// Content writes raw file bytes verbatim.
func (dw *Writer) Content(b []byte) {
	if dw.err != nil {
		return
	}
	_, dw.err = dw.w.Write(b)
}

// NotText writes the placeholder used for files that are not UTF-8 text.
func (dw *Writer) NotText() {
	dw.printf("%s\n", NotTextLine)
}

// ReadError writes an inline comment describing a read failure.
func (dw *Writer) ReadError(err error) {
	dw.printf("%s%s\n", ReadErrorPrefix, singleLine(err.Error()))
}

// EndFile writes the separator newline and the content end marker.
// The restorer strips exactly that one newline again.
func (dw *Writer) EndFile() {
	dw.printf("\n%s\n", ContentEnd)
}

// File writes a complete file block.
func (dw *Writer) File(rec model.FileRecord) {
	dw.BeginFile(rec)
	dw.Content(rec.Content)
	dw.EndFile()
}

// Flush writes any buffered data and returns the first error encountered.
func (dw *Writer) Flush() error {
	if dw.err != nil {
		return dw.err
	}
	return dw.w.Flush()
}

func singleLine(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", " ")
}
