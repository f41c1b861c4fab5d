package state

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sokinpui/treedoc/internal/fs"
)

const (
	stateDirName  = ".treedoc"
	stateFileName = "state"
	TrashDir      = "trash"
)

// ErrChangedSinceRestore is returned when a file no longer has the content a
// restore wrote, so reverting it would lose work.
var ErrChangedSinceRestore = errors.New("file changed since it was restored")

// Operation represents a single file written by a restore.
type Operation struct {
	Path        string
	Action      string
	ContentHash string // SHA256 of the file content after the restore
	Backup      string // copy of the previous content, modify only
}

// HistoryEntry represents one restore run.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State represents the entire state file.
type State struct {
	History []HistoryEntry
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
	now       func() time.Time
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at the git repository
// containing the working directory, or the working directory itself.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates and loads a state manager keeping its files under
// rootDir/.treedoc.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
		now:       time.Now,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	m.state = &State{History: []HistoryEntry{}}

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp from '%s': %w", lines[0], err)
		}

		entry := HistoryEntry{Timestamp: ts}
		opLines := lines[1:]

		i := 0
		for i < len(opLines) {
			if i+3 > len(opLines) {
				return fmt.Errorf("invalid state file: incomplete operation record")
			}
			action := opLines[i]
			op := Operation{
				Action:      action,
				Path:        opLines[i+1],
				ContentHash: opLines[i+2],
			}
			i += 3
			if action == fs.ActionModify {
				if i >= len(opLines) {
					return fmt.Errorf("invalid state file: incomplete modify operation record")
				}
				op.Backup = opLines[i]
				i++
			}
			entry.Operations = append(entry.Operations, op)
		}
		m.state.History = append(m.state.History, entry)
	}

	return nil
}

func (m *Manager) save() error {
	var blocks []string
	for _, entry := range m.state.History {
		lines := []string{strconv.FormatInt(entry.Timestamp, 10)}
		for _, op := range entry.Operations {
			lines = append(lines, op.Action, op.Path, op.ContentHash)
			if op.Action == fs.ActionModify {
				lines = append(lines, op.Backup)
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	content := strings.Join(blocks, "\n\n")
	if err := os.WriteFile(m.statePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// History returns the recorded restore runs, oldest first.
func (m *Manager) History() []HistoryEntry {
	return m.state.History
}

// Begin reserves a timestamp for a new run and returns it together with the
// directory where that run should back up files it overwrites.
func (m *Manager) Begin() (int64, string) {
	ts := m.now().UTC().UnixMilli()
	if n := len(m.state.History); n > 0 && ts <= m.state.History[n-1].Timestamp {
		ts = m.state.History[n-1].Timestamp + 1
	}
	return ts, filepath.Join(m.StateDir, TrashDir, strconv.FormatInt(ts, 10))
}

// Write adds a run to the history. Runs that wrote nothing are not recorded.
func (m *Manager) Write(ts int64, operations []Operation) error {
	if len(operations) == 0 {
		return nil
	}
	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  ts,
		Operations: operations,
	})
	return m.save()
}

// CreateOperations turns the path→action map of a restore into operations.
// outputDir is the restore's output directory and backupDir the directory
// passed to the restore for overwritten files.
func (m *Manager) CreateOperations(actions map[string]string, outputDir, backupDir string) []Operation {
	ops := make([]Operation, 0, len(actions))
	for path, action := range actions {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}

		hash, err := fs.GetFileSHA256(abs)
		if err != nil {
			// An empty hash makes revert refuse to touch the file.
			hash = ""
		}

		op := Operation{Path: abs, Action: action, ContentHash: hash}
		if action == fs.ActionModify {
			if rel, err := filepath.Rel(outputDir, path); err == nil {
				op.Backup, _ = filepath.Abs(filepath.Join(backupDir, rel))
			}
		}
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Path < ops[j].Path
	})
	return ops
}

// RevertLast undoes the most recent run: files it created are removed and
// files it overwrote get their backup copied back. Files edited after the
// restore are left alone and reported as failed. The run is dropped from the
// history even when some files fail, so a second revert moves on to the
// previous run.
func (m *Manager) RevertLast() (reverted, failed []string, err error) {
	n := len(m.state.History)
	if n == 0 {
		return nil, nil, nil
	}
	entry := m.state.History[n-1]

	for _, op := range entry.Operations {
		if rerr := revert(op); rerr != nil {
			failed = append(failed, fmt.Sprintf("%s (%v)", op.Path, rerr))
			continue
		}
		reverted = append(reverted, op.Path)
	}

	m.state.History = m.state.History[:n-1]
	if err := m.save(); err != nil {
		return reverted, failed, err
	}
	if len(failed) == 0 {
		os.RemoveAll(filepath.Join(m.StateDir, TrashDir, strconv.FormatInt(entry.Timestamp, 10)))
	}
	return reverted, failed, nil
}

func revert(op Operation) error {
	hash, err := fs.GetFileSHA256(op.Path)
	if err != nil {
		return err
	}
	if op.ContentHash == "" || hash != op.ContentHash {
		return ErrChangedSinceRestore
	}

	switch op.Action {
	case fs.ActionCreate:
		return os.Remove(op.Path)
	case fs.ActionModify:
		if op.Backup == "" {
			return fmt.Errorf("no backup recorded")
		}
		return fs.CopyFile(op.Backup, op.Path)
	default:
		return fmt.Errorf("unknown action %q", op.Action)
	}
}
