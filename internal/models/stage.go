package models

// Stage names a step in the payment lifecycle. Each in-flight transaction
// is in exactly one stage at a time.
type Stage string

const (
	StageAwaiting   Stage = "awaiting_presentation"
	StageSummary    Stage = "summary"
	StageRetrying   Stage = "retrying"
	StageProcessing Stage = "processing"
	StageSuccess    Stage = "success"
	StageCompleted  Stage = "completed"
)

// Signal is a user-intent event reported back by the presentation surface
// for the stage it is currently showing.
type Signal string

const (
	SignalConfirmed    Signal = "confirmed"
	SignalCancelled    Signal = "cancelled"
	SignalAcknowledged Signal = "acknowledged"
)
