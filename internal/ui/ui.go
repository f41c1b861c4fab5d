package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/treedoc/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	PromptColor  = color.New(color.FgMagenta)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

func Prompt(format string, a ...interface{}) string {
	return PromptColor.Sprintf(format, a...)
}

// --- Prompts ---

// Asker reads answers to interactive questions.
type Asker struct {
	in  *bufio.Reader
	out io.Writer
}

// NewAsker returns an Asker reading from in and prompting on out.
func NewAsker(in io.Reader, out io.Writer) *Asker {
	return &Asker{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer.
func (a *Asker) Ask(question string) (string, error) {
	fmt.Fprint(a.out, Prompt("%s", question))
	answer, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || answer == "") {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// AskUntil repeats question until valid accepts the answer. valid returns
// the message to print for a rejected answer.
func (a *Asker) AskUntil(question string, valid func(string) error) (string, error) {
	for {
		answer, err := a.Ask(question)
		if err != nil {
			return "", err
		}
		if verr := valid(answer); verr != nil {
			ErrorColor.Fprintf(a.out, "Error: %v. Please try again.\n", verr)
			continue
		}
		return answer, nil
	}
}

// --- Summaries ---

// PrintSummary writes a summary in plain coloured text.
func PrintSummary(title string, s model.Summary) {
	Header("\n--- %s ---", title)

	if s.Message != "" {
		Info("%s", s.Message)
	}
	if len(s.Created) == 0 && len(s.Modified) == 0 && len(s.Failed) == 0 && s.Message == "" {
		Info("Nothing to do.")
		return
	}

	if len(s.Created) > 0 {
		Success("Created %d file(s):", len(s.Created))
		for _, f := range s.Created {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(s.Modified) > 0 {
		Success("Overwrote %d file(s):", len(s.Modified))
		for _, f := range s.Modified {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(s.Skipped) > 0 {
		Warning("Skipped %d file(s) by extension filter.", len(s.Skipped))
	}
	if len(s.Failed) > 0 {
		Error("Failed to process %d file(s):", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Printf("  - %s\n", f)
		}
	}
}

// --- Progress ---

// ProgressLine rewrites a single stderr line with the latest processed path.
type ProgressLine struct {
	prefix string
	width  int
}

func NewProgressLine(prefix string) *ProgressLine {
	return &ProgressLine{prefix: prefix, width: 60}
}

func (p *ProgressLine) Update(done int, path string) {
	if len(path) > p.width {
		path = "..." + path[len(path)-p.width+3:]
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%s [%d] %s", p.prefix, done, path)
}

func (p *ProgressLine) Finish() {
	fmt.Fprint(os.Stderr, "\r\033[K")
}
