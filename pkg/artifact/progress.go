package artifact

import "time"

// Stage represents a build stage.
type Stage string

const (
	StageClean       Stage = "clean"
	StageCopy        Stage = "copy"
	StageScript      Stage = "script"
	StagePermissions Stage = "permissions"
	StageService     Stage = "service"
	StageCompress    Stage = "compress"
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
	case StageClean:
		return "Cleaning Build Directory"
	case StageCopy:
		return "Copying Application Files"
	case StageScript:
		return "Generating Deployment Script"
	case StagePermissions:
		return "Setting Permissions"
	case StageService:
		return "Generating Service Unit"
	case StageCompress:
		return "Compressing Artifact"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// ProgressEvent represents a build progress update.
type ProgressEvent struct {
	Stage     Stage     // Current stage
	Message   string    // Human-readable message
	Detail    string    // Additional detail, e.g. a file path
	IsError   bool      // True if this is an error message
	Timestamp time.Time // When this event occurred
}

// NewProgressEvent creates a new progress event.
func NewProgressEvent(stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewProgressEventWithDetail creates a progress event with detail.
func NewProgressEventWithDetail(stage Stage, message, detail string) ProgressEvent {
	e := NewProgressEvent(stage, message)
	e.Detail = detail
	return e
}

// NewErrorEvent creates a new error progress event.
func NewErrorEvent(message string) ProgressEvent {
	return ProgressEvent{
		Stage:     StageError,
		Message:   message,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// ProgressCallback is called with progress updates during a build.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}
