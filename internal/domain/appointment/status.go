package appointment

import "strings"

// Status is the closed normalization of the free-text status field.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusOther     Status = "other"
	StatusUnknown   Status = "unknown"
)

// Keyword sets checked in priority order. Thai entries cover the
// department's bilingual status entry habits.
var (
	pendingKeywords   = []string{"pending", "wait", "รอ"}
	doneKeywords      = []string{"done", "complete", "success", "finish", "เสร็จ", "สำเร็จ", "มาตามนัด"}
	cancelledKeywords = []string{"cancel", "ยกเลิก", "งด"}
)

// NormalizeStatus maps a raw, possibly bilingual status string to the
// closed set. Matching is case-insensitive and substring-based, checked
// pending first, then done, then cancelled. Empty input is unknown and
// anything unmatched is other.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusUnknown
	}
	for _, kw := range pendingKeywords {
		if strings.Contains(s, kw) {
			return StatusPending
		}
	}
	for _, kw := range doneKeywords {
		if strings.Contains(s, kw) {
			return StatusDone
		}
	}
	for _, kw := range cancelledKeywords {
		if strings.Contains(s, kw) {
			return StatusCancelled
		}
	}
	return StatusOther
}
