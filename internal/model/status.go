package model

// SessionState represents where a chat conversation currently is
type SessionState string

const (
	// SessionStateIdle means no question is pending, a new URL is expected
	SessionStateIdle SessionState = "idle"

	// SessionStateAwaitingConfirmation means the user must confirm a short video
	SessionStateAwaitingConfirmation SessionState = "awaiting_duration_confirmation"

	// SessionStateAwaitingFormat means a numbered format list was sent
	SessionStateAwaitingFormat SessionState = "awaiting_format_selection"

	// SessionStateBusy means an extraction or download call is in flight
	SessionStateBusy SessionState = "busy"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsPending returns true if the session waits for an answer from the user
func (s SessionState) IsPending() bool {
	return s == SessionStateAwaitingConfirmation || s == SessionStateAwaitingFormat
}

// IsBusy returns true if the session is occupied by a running call
func (s SessionState) IsBusy() bool {
	return s == SessionStateBusy
}

// ProgressStatus mirrors the status field of yt-dlp progress records
type ProgressStatus string

const (
	ProgressStatusStarting       ProgressStatus = "starting"
	ProgressStatusDownloading    ProgressStatus = "downloading"
	ProgressStatusPostProcessing ProgressStatus = "post_processing"
	ProgressStatusFinished       ProgressStatus = "finished"
	ProgressStatusError          ProgressStatus = "error"
)
