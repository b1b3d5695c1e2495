package events

import (
	"time"

	"keyforge/internal/ids"
)

// ExportPlanned records the start of an export workflow run.
type ExportPlanned struct {
	eventMarker
	ManifestID ids.ManifestID
	PlannedAt  time.Time
}

func (ExportPlanned) Kind() string { return "export.planned" }

// ExportGenerating records that manifest content generation is underway.
type ExportGenerating struct {
	eventMarker
	ManifestID ids.ManifestID
	StartedAt  time.Time
}

func (ExportGenerating) Kind() string { return "export.generating" }

// ExportCompleted records terminal success of an export workflow run.
type ExportCompleted struct {
	eventMarker
	ManifestID  ids.ManifestID
	CompletedAt time.Time
}

func (ExportCompleted) Kind() string { return "export.completed" }

// ExportFailed records terminal failure of an export workflow run at any
// non-terminal state.
type ExportFailed struct {
	eventMarker
	ManifestID ids.ManifestID
	Reason     string
	FailedAt   time.Time
}

func (ExportFailed) Kind() string { return "export.failed" }
