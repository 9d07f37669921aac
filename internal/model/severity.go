package model

// Severity is the aggregate severity of an upload batch. Levels form a total
// order info < success < warning < danger; batch aggregation takes the
// maximum, so a severity is never downgraded once escalated.
type Severity int

// Severity levels, in escalation order.
const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityDanger
)

// String returns the banner style name for the severity.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityDanger:
		return "danger"
	default:
		return "info"
	}
}

// Escalate returns the maximum of the two severities.
func (s Severity) Escalate(other Severity) Severity {
	if other > s {
		return other
	}
	return s
}

// UploadStatus accumulates per-file status lines and the aggregate severity
// for one upload batch. It lives from the start of a batch until the status
// pane is dismissed or a new batch begins.
type UploadStatus struct {
	Messages []string
	Severity Severity
}

// Append adds a status line.
func (u *UploadStatus) Append(msg string) {
	u.Messages = append(u.Messages, msg)
}

// ReplaceLast swaps the most recent status line, used to turn a transient
// "importing" placeholder into its terminal message.
func (u *UploadStatus) ReplaceLast(msg string) {
	if len(u.Messages) == 0 {
		u.Messages = []string{msg}
		return
	}
	u.Messages[len(u.Messages)-1] = msg
}

// Escalate raises the aggregate severity, never lowering it.
func (u *UploadStatus) Escalate(s Severity) {
	u.Severity = u.Severity.Escalate(s)
}
