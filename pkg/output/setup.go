package output

import "strings"

// Banner prints the post-auth setup title and a rule.
func (p *Printer) Banner() {
	p.printf("🚀 Post-Authentication Setup\n\n")
	p.printf("%s\n", strings.Repeat("=", separatorWidth))
}

// Section starts a group of setup steps.
func (p *Printer) Section(icon, title string) {
	p.printf("\n%s %s...\n", icon, title)
}

// Line prints a plain line.
func (p *Printer) Line(msg string) {
	p.printf("%s\n", msg)
}

// Step announces a setup command.
func (p *Printer) Step(description string) {
	p.printf("🔄 %s...\n", description)
}

// StepOK reports a successful step and the start of its output.
func (p *Printer) StepOK(stdout string) {
	p.printf("  %s %sSuccess%s\n", iconOK, green, reset)
	if out := strings.TrimSpace(stdout); out != "" {
		p.printf("  Output: %s\n", Truncate(out, truncateAt))
	}
}

// StepFailed reports a step whose command exited non-zero.
func (p *Printer) StepFailed(stderr string) {
	p.printf("  %s %sFailed%s: %s\n", iconFail, red, reset, Truncate(strings.TrimSpace(stderr), truncateAt))
}

// StepTimedOut reports a step that exceeded its bound.
func (p *Printer) StepTimedOut() {
	p.printf("  ⏱️  Command timed out\n")
}

// StepError reports a step that could not run.
func (p *Printer) StepError(msg string) {
	p.printf("  %s Error: %s\n", iconFail, msg)
}

// Created lists a path made by workspace scaffolding.
func (p *Printer) Created(path string) {
	p.printf("  %s Created: %s\n", iconOK, path)
}

// SetupSummary closes a setup run.
func (p *Printer) SetupSummary(failed []string) {
	p.Separator()
	if len(failed) == 0 {
		p.printf("%s Post-authentication setup completed successfully!\n", iconOK)
		p.printf("\nYour environment is ready to use. Happy coding! 🎉\n")
		return
	}
	p.printf("%s Setup completed with %d failed task(s):\n", iconWarn, len(failed))
	for _, name := range failed {
		p.printf("  - %s\n", name)
	}
}
