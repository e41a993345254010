package report

import (
	"fmt"
	"io"
	"strings"

	"sitecensus/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether subsections with no matches are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty subsections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.CollectionResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSummary(&sb, result)
	w.writeSections(&sb, result)
	w.writePages(&sb, result)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CollectionResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SITE COLLECTION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Organization:   %s\n", result.OrganizationName))
	sb.WriteString(fmt.Sprintf("Source URL:     %s\n", result.SourceURL))
	sb.WriteString(fmt.Sprintf("Collected At:   %s\n", result.CollectedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages:          %d collected, %d successful\n",
		len(result.Pages), result.SuccessfulPages()))
	sb.WriteString(fmt.Sprintf("Total Words:    %d\n", result.TotalWords()))

	if result.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", result.ErrorMessage))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the holistic summary section if one exists.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.CollectionResult) {
	if result.Summary == "" {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")
}

// writeSections writes the classification results.
func (w *SimpleWriter) writeSections(sb *strings.Builder, result *model.CollectionResult) {
	if len(result.Sections) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CLASSIFICATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, section := range result.Sections {
		sb.WriteString(fmt.Sprintf("[%s] %s (%d pages, mean %.1f)\n",
			strings.ToUpper(section.Coverage.String()),
			section.Name,
			section.TotalRelevantPages,
			section.MeanRelevanceScore,
		))

		for _, sub := range section.Subsections {
			if len(sub.RelevantPages) == 0 && !w.showEmpty {
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s\n", sub.Name))
			for _, m := range sub.RelevantPages {
				sb.WriteString(fmt.Sprintf("    * %s (%.1f)\n", m.PageTitle, m.RelevanceScore))
				sb.WriteString(fmt.Sprintf("      %s\n", m.URL))
				if w.verbose && m.Reasoning != "" {
					sb.WriteString(fmt.Sprintf("      Reasoning: %s\n", m.Reasoning))
				}
			}
		}
		sb.WriteString("\n")
	}
}

// writePages writes the corpus listing with per-page status.
func (w *SimpleWriter) writePages(sb *strings.Builder, result *model.CollectionResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COLLECTED PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Pages) == 0 {
		sb.WriteString("  No pages collected\n\n")
		return
	}

	for _, page := range result.Pages {
		if page.Failed() {
			sb.WriteString(fmt.Sprintf("  [x] %s (error: %s)\n", page.DisplayURL(), page.Error))
			continue
		}
		sb.WriteString(fmt.Sprintf("  [+] %s (%d words)\n", page.Title, page.WordCount))
		sb.WriteString(fmt.Sprintf("      %s\n", page.DisplayURL()))
	}
	sb.WriteString("\n")
}
