package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ImportStart Phase = iota
	ImportTrack
	ImportDone
)

func (p Phase) String() string {
	switch p {
	case ImportStart:
		return "import_start"
	case ImportTrack:
		return "import_track"
	case ImportDone:
		return "import_done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

func importStartUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Importing %d tracks with %d workers...", total, workers),
	}
}

func importTrackUpdate(step, total int, res ImportResult) ProgressUpdate {
	var msg string
	switch res.Status {
	case StatusImported:
		msg = fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, res.Track.Artist.Name, res.Track.Title)
	case StatusExists:
		msg = fmt.Sprintf("[%d/%d] = %s already imported (%s)", step, total, res.Input, res.TrackID)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Input, res.Error)
	}

	return ProgressUpdate{
		Phase:   ImportTrack,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func importDoneUpdate(result *BulkImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase: ImportDone,
		Step:  result.Total,
		Total: result.Total,
		Message: fmt.Sprintf("Imported %d, existing %d, invalid %d, failed %d",
			result.Imported, result.Existing, result.Invalid, result.Failed),
		Data: result,
	}
}
