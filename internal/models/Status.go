package models

// Status is the non-result state shown next to a drawing.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSaved   Status = "saved"
	StatusPrompt  Status = "prompt"
	StatusError   Status = "error"
	// StatusStale marks a cached drawing shown after a failed refresh.
	StatusStale Status = "stale"
)
