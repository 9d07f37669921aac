package cli

import (
	"fmt"
	"strings"

	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/review"
)

// duplicateLabel maps a classification onto the short tag shown in the table.
func duplicateLabel(status model.DuplicateStatus) string {
	switch status {
	case model.DuplicateStatusExact:
		return DangerStyle.Render("duplicate")
	case model.DuplicateStatusPotential:
		return WarningStyle.Render("possible dup")
	default:
		return SubtleStyle.Render("new")
	}
}

func selectionMark(selected bool) string {
	if selected {
		return SuccessStyle.Render("[x]")
	}
	return SubtleStyle.Render("[ ]")
}

// RenderCandidateTable formats one review page as a fixed-width table with a
// footer showing the page position.
func RenderCandidateTable(page *model.ReviewPage) string {
	var b strings.Builder

	header := fmt.Sprintf("    %-3s %-10s %-32s %10s  %-14s %s",
		"#", "Date", "Payee", "Amount", "Status", "Key")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	base := (page.Meta.PageNumber - 1) * page.Meta.PageSize
	for i, item := range page.Items {
		payee := item.Payee
		if len(payee) > 32 {
			payee = payee[:29] + "..."
		}
		row := fmt.Sprintf("%s %-3d %-10s %-32s %10.2f  %-14s %s",
			selectionMark(item.Selected),
			base+i+1,
			item.Date.Format("2006-01-02"),
			payee,
			item.Amount,
			duplicateLabel(item.DuplicateStatus),
			SubtleStyle.Render(item.ID))
		b.WriteString(row)
		b.WriteString("\n")
	}

	if len(page.Items) == 0 {
		b.WriteString(SubtleStyle.Render("  (no pending transactions)"))
		b.WriteString("\n")
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("Page %d of %d (%d transactions total)",
		page.Meta.PageNumber, page.Meta.TotalPages, page.Meta.TotalCount)))
	return b.String()
}

// RenderSummary formats the workspace-wide selection counts as one line.
func RenderSummary(summary *model.ReviewSummary) string {
	line := fmt.Sprintf("%d of %d transactions selected",
		summary.SelectedCount, summary.TotalCount)
	if summary.PotentialDuplicateCount > 0 {
		line += WarningStyle.Render(fmt.Sprintf(" (%d possible duplicates)",
			summary.PotentialDuplicateCount))
	}
	return line
}

// RenderUploadStatus formats the per-file upload progress block, colored by
// the batch's aggregate severity.
func RenderUploadStatus(status *model.UploadStatus) string {
	if len(status.Messages) == 0 {
		return ""
	}
	style := SeverityStyle(status.Severity)
	return style.Render(strings.Join(status.Messages, "\n"))
}

// RenderBanner formats a page-level error banner.
func RenderBanner(rec *review.ErrorRecord) string {
	if rec == nil {
		return ""
	}
	if rec.Detail != "" {
		return FormatError(rec.Title + ": " + rec.Detail)
	}
	return FormatError(rec.Title)
}

// RenderConfirmation formats the commit confirmation box.
func RenderConfirmation(c review.Confirmation) string {
	lines := []string{
		fmt.Sprintf("Import %s", BoldStyle.Render(fmt.Sprintf("%d transactions", c.SelectedCount))),
		fmt.Sprintf("Discard %d unselected", c.DiscardCount),
	}
	if c.PotentialDuplicateCount > 0 {
		lines = append(lines, WarningStyle.Render(
			fmt.Sprintf("%s %d possible duplicates in this batch", WarningIcon, c.PotentialDuplicateCount)))
	}
	return RenderBox("Complete Import", strings.Join(lines, "\n"))
}

// RenderTransactionList formats committed ledger rows.
func RenderTransactionList(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return SubtleStyle.Render("(no transactions)")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-10s %-32s %10s  %s", "Date", "Payee", "Amount", "Category")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, t := range transactions {
		payee := t.Payee
		if len(payee) > 32 {
			payee = payee[:29] + "..."
		}
		category := t.Category
		if category == "" {
			category = SubtleStyle.Render("-")
		}
		fmt.Fprintf(&b, "%-10s %-32s %10.2f  %s\n",
			t.Date.Format("2006-01-02"), payee, t.Amount, category)
	}
	return strings.TrimRight(b.String(), "\n")
}
