package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/devauth/pkg/check"
	"github.com/vertti/devauth/pkg/report"
)

var green, red, dim, reset string

func init() {
	SetColor(supportscolor.Stdout().SupportsColor)
}

// SetColor turns ANSI styling of status lines on or off.
func SetColor(enabled bool) {
	if enabled {
		green, red, dim, reset = "\033[32m", "\033[31m", "\033[2m", "\033[0m"
		return
	}
	green, red, dim, reset = "", "", "", ""
}

const (
	iconOK   = "✅"
	iconFail = "❌"
	iconWarn = "⚠️ "

	separatorWidth = 60
	truncateAt     = 100
)

// Printer renders check results and setup progress to W.
type Printer struct {
	W       io.Writer
	Verbose bool // print result details under each line
}

// New returns a Printer writing to w.
func New(w io.Writer, verbose bool) *Printer {
	return &Printer{W: w, Verbose: verbose}
}

func (p *Printer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.W, format, args...)
}

// Header announces the authentication checks.
func (p *Printer) Header() {
	p.printf("🔐 Checking Authentication Status...\n\n")
}

// Result prints one status line: "<icon> <name>: <message>".
func (p *Printer) Result(r check.Result) {
	// Color spans "name: message" as a unit so the line still contains the
	// plain "<name>: <message>" text when styled.
	if r.OK() {
		p.printf("%s %s%s: %s%s\n", iconOK, green, r.Name, r.Message, reset)
	} else {
		p.printf("%s %s%s: %s%s\n", iconFail, red, r.Name, r.Message, reset)
	}
	if !p.Verbose {
		return
	}
	for _, d := range r.Details {
		p.printf("   %s\n", formatLabel(d))
	}
	if !r.OK() && r.Err != nil {
		p.printf("   %s\n", formatLabel("cause: "+r.Err.Error()))
	}
}

// Separator prints a blank line and a rule.
func (p *Printer) Separator() {
	p.printf("\n%s\n", strings.Repeat("=", separatorWidth))
}

// Summary prints the closing block for an authentication run.
func (p *Printer) Summary(passed bool) {
	p.Separator()
	if passed {
		p.printf("%s All authentication checks passed!\n", iconOK)
		p.printf("You are ready to use the development environment.\n")
		return
	}
	p.printf("%s Some authentication checks failed.\n", iconWarn)
	p.printf("Please authenticate with the services listed above.\n")
}

// formatLabel dims the "label:" prefix of a detail line.
func formatLabel(s string) string {
	if idx := strings.Index(s, ": "); idx > 0 {
		return dim + s[:idx+1] + reset + s[idx+1:]
	}
	return s
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

type jsonResult struct {
	Name    string   `json:"name"`
	OK      bool     `json:"ok"`
	Kind    string   `json:"kind,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type jsonReport struct {
	RunID   string       `json:"run_id"`
	Started time.Time    `json:"started"`
	Passed  bool         `json:"passed"`
	Results []jsonResult `json:"results"`
}

// JSON writes the report as an indented JSON document.
func (p *Printer) JSON(rep report.Report) error {
	doc := jsonReport{
		RunID:   rep.RunID,
		Started: rep.Started,
		Passed:  rep.Passed(),
		Results: make([]jsonResult, 0, len(rep.Results)),
	}
	for _, r := range rep.Results {
		jr := jsonResult{
			Name:    r.Name,
			OK:      r.OK(),
			Kind:    string(r.Kind),
			Message: r.Message,
			Details: r.Details,
		}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		doc.Results = append(doc.Results, jr)
	}

	enc := json.NewEncoder(p.W)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
