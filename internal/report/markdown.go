package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"sitecensus/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CollectionResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, result)

	// Holistic summary
	w.writeSummary(md, result)

	// Classification sections
	w.writeSections(md, result)

	// Corpus listing
	w.writePages(md, result)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CollectionResult) {
	title := result.OrganizationName
	if title == "" {
		title = result.SourceURL
	}
	md.H1("Collection Report: " + title)
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source URL", "`" + result.SourceURL + "`"},
			{"Collected At", result.CollectedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Collected", fmt.Sprintf("%d (%d successful)", len(result.Pages), result.SuccessfulPages())},
			{"Total Words", strconv.Itoa(result.TotalWords())},
			{"Status", w.getStatusText(result)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on the run state.
func (w *MarkdownWriter) getStatusText(result *model.CollectionResult) string {
	if result.ErrorMessage != "" {
		return "❌ Error - " + result.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the holistic summary section if one exists.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CollectionResult) {
	if result.Summary == "" {
		return
	}

	md.H2("Summary")
	md.PlainText("")
	md.PlainText(result.Summary)
	md.PlainText("")
}

// writeSections writes the classification results, one H2 per section.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, result *model.CollectionResult) {
	if len(result.Sections) == 0 {
		return
	}

	for _, section := range result.Sections {
		md.H2(section.Name)
		md.PlainText("")
		if section.Definition != "" {
			md.PlainText(section.Definition)
			md.PlainText("")
		}

		w.writeCoverageAlert(md, section)

		for _, sub := range section.Subsections {
			w.writeSubsection(md, sub)
		}
	}
}

// writeCoverageAlert writes an alert matching the section's coverage.
func (w *MarkdownWriter) writeCoverageAlert(md *markdown.Markdown, section model.SectionResult) {
	switch section.Coverage {
	case model.CoverageExcellent:
		md.Tipf("Excellent coverage: %d relevant page(s), mean score %.1f.",
			section.TotalRelevantPages, section.MeanRelevanceScore)
	case model.CoverageGood:
		md.Notef("Good coverage: %d relevant page(s), mean score %.1f.",
			section.TotalRelevantPages, section.MeanRelevanceScore)
	default:
		md.Warningf("Limited coverage: %d relevant page(s) found for this section.",
			section.TotalRelevantPages)
	}
	md.PlainText("")
}

// writeSubsection writes one subsection's match table.
func (w *MarkdownWriter) writeSubsection(md *markdown.Markdown, sub model.SubsectionResult) {
	md.PlainText("### " + sub.Name)
	md.PlainText("")

	if len(sub.RelevantPages) == 0 {
		md.PlainText("No relevant pages found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(sub.RelevantPages))
	for i, m := range sub.RelevantPages {
		rows[i] = []string{
			m.PageTitle,
			m.URL,
			fmt.Sprintf("%.1f", m.RelevanceScore),
			truncateString(m.Reasoning, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "URL", "Score", "Reasoning"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the corpus listing with per-page status.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CollectionResult) {
	md.H2("Collected Pages")
	md.PlainText("")

	if len(result.Pages) == 0 {
		md.PlainText("No pages collected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Pages))
	for i, page := range result.Pages {
		status := "ok"
		if page.Failed() {
			status = "error: " + truncateString(page.Error, 50)
		}
		rows[i] = []string{
			truncateString(page.Title, 50),
			page.DisplayURL(),
			strconv.Itoa(page.WordCount),
			status,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "URL", "Words", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
