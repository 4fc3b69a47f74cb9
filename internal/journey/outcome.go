package journey

import "fmt"

type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the result of a sync operation. Sync operations never return
// errors to the caller; a failure is reported here and in LastError.
type Outcome struct {
	Op     string
	Status Status
	Reason error // set when skipped
	Err    error // set when failed
}

func done(op string) Outcome { return Outcome{Op: op, Status: StatusDone} }

func skipped(op string, reason error) Outcome {
	return Outcome{Op: op, Status: StatusSkipped, Reason: reason}
}

func failed(op string, err error) Outcome {
	return Outcome{Op: op, Status: StatusFailed, Err: err}
}

func (o Outcome) OK() bool { return o.Status != StatusFailed }

func (o Outcome) String() string {
	switch o.Status {
	case StatusSkipped:
		return fmt.Sprintf("%s skipped: %v", o.Op, o.Reason)
	case StatusFailed:
		return fmt.Sprintf("%s failed: %v", o.Op, o.Err)
	default:
		return o.Op + " done"
	}
}
