package apps

import "time"

// Stage represents an install stage.
type Stage string

const (
	StageResolving   Stage = "resolving"
	StageDownloading Stage = "downloading"
	StageVerifying   Stage = "verifying"
	StagePlacing     Stage = "placing"
	StageIntegrating Stage = "integrating"
	StageConfiguring Stage = "configuring"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageResolving:
		return "Resolving Release"
	case StageDownloading:
		return "Downloading"
	case StageVerifying:
		return "Verifying"
	case StagePlacing:
		return "Placing Files"
	case StageIntegrating:
		return "Desktop Integration"
	case StageConfiguring:
		return "Configuring"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// ProgressEvent represents an install progress update.
type ProgressEvent struct {
	AppID     string    // Catalog ID of the app being installed
	Stage     Stage     // Current stage
	Message   string    // Human-readable message
	Detail    string    // Additional detail or output
	Percent   int       // 0-100, -1 for indeterminate
	IsError   bool      // True if this is an error message
	Timestamp time.Time // When this event occurred
}

// NewProgressEvent creates a new progress event.
func NewProgressEvent(appID string, stage Stage, message string, percent int) ProgressEvent {
	return ProgressEvent{
		AppID:     appID,
		Stage:     stage,
		Message:   message,
		Percent:   percent,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates a progress event for an error.
func NewErrorEvent(appID string, message string, err error) ProgressEvent {
	return ProgressEvent{
		AppID:     appID,
		Stage:     StageError,
		Message:   message,
		Detail:    err.Error(),
		Percent:   -1,
		IsError:   true,
		Timestamp: time.Now(),
	}
}
