package model

// RecordKind identifies what a line of a consolidation document represents.
type RecordKind int

const (
	KindContent RecordKind = iota
	KindRoot
	KindDirectory
	KindFile
	KindFullPath
	KindHidden
	KindContentStart
	KindContentEnd
	KindNotText
	KindReadError
)

// FileRecord is one file block of a consolidation document.
type FileRecord struct {
	// RelativePath is relative to the consolidated root and is the restore key.
	RelativePath string
	// FullPath is informational only.
	FullPath string
	Hidden   bool
	Content  []byte
}

// Summary holds the results of an operation for display.
type Summary struct {
	Created  []string
	Modified []string
	Skipped  []string
	Failed   []string
	Message  string
}
