package tasks

import "fmt"

// Phase identifies a step of the import pipeline.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseFetching   Phase = "fetching"
	PhaseMerging    Phase = "merging"
	PhaseSaving     Phase = "saving"
	PhaseDone       Phase = "done"
	PhaseErrored    Phase = "errored"
)

// ProgressUpdate is a point-in-time report emitted while an import runs.
type ProgressUpdate struct {
	Phase   Phase
	Message string
	Err     error

	// Counts accumulate as pages arrive; only meaningful during fetching
	// and after.
	OwnedCount   int
	StarredCount int
}

func validatingUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: PhaseValidating, Message: "validating token"}
}

func fetchingUpdate(collection string, page, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PhaseFetching,
		Message: fmt.Sprintf("fetched %s page %d (%d so far)", collection, page, total),
	}
}

func mergingUpdate(owned, starred int) ProgressUpdate {
	return ProgressUpdate{
		Phase:        PhaseMerging,
		Message:      fmt.Sprintf("merging %d owned and %d starred repositories", owned, starred),
		OwnedCount:   owned,
		StarredCount: starred,
	}
}

func savingUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: PhaseSaving, Message: "saving collection"}
}

func doneUpdate(added int) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseDone, Message: fmt.Sprintf("import complete, %d new repositories", added)}
}

func erroredUpdate(err error) ProgressUpdate {
	return ProgressUpdate{Phase: PhaseErrored, Message: err.Error(), Err: err}
}
