package storynav

// Status classifies a story's test/build outcome.
type Status string

// Status values, lowest to highest severity.
const (
	StatusUnknown Status = "unknown"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusWarn    Status = "warn"
	StatusError   Status = "error"
)

// statusOrder is the fixed precedence list for aggregation. The last entry
// of this list present in an input set wins, so error dominates warn, warn
// dominates success, and so on down to unknown.
var statusOrder = []Status{
	StatusUnknown,
	StatusPending,
	StatusSuccess,
	StatusWarn,
	StatusError,
}

// HighestStatus reduces a set of statuses to the single highest-severity
// value present. An empty input yields StatusUnknown.
func HighestStatus(present ...Status) Status {
	set := make(map[Status]bool, len(present))
	for _, s := range present {
		set[s] = true
	}
	result := StatusUnknown
	for _, s := range statusOrder {
		if set[s] {
			result = s
		}
	}
	return result
}

// ShowsBadge reports whether the status renders a dot/badge indicator.
// Only warn and error surface visually on group rows.
func (s Status) ShowsBadge() bool {
	return s == StatusWarn || s == StatusError
}

// StatusEntry is one status report for a story, keyed by provider.
type StatusEntry struct {
	Value       Status `json:"status"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Statuses maps story id to per-provider status entries. It is owned by the
// external provider layer and treated as an immutable snapshot; derived
// state is keyed on the *Statuses pointer identity.
type Statuses struct {
	ByStory map[string]map[string]StatusEntry
}

// Story returns every status value reported for a story id.
func (s *Statuses) Story(id string) []Status {
	if s == nil {
		return nil
	}
	entries := s.ByStory[id]
	if len(entries) == 0 {
		return nil
	}
	values := make([]Status, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Value)
	}
	return values
}
