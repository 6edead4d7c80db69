package datarecording

import (
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecRecorder records how and when the process ran.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecEntry
}

// NewExecRecorder creates the exec table in a recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(TableExec, ExecEntry{})

	return &ExecRecorder{recorder: recorder}
}

// Start notes the start time, the command line and the working directory,
// followed by extra property and value pairs.
func (e *ExecRecorder) Start(props ...ExecEntry) {
	e.entries = append(e.entries,
		ExecEntry{"Start Time", time.Now().Format(timeLayout)},
		ExecEntry{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.entries = append(e.entries, ExecEntry{"Working Directory", cwd})
	e.entries = append(e.entries, props...)
}

// End writes the noted entries along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(TableExec, entry)
	}

	e.recorder.InsertData(TableExec,
		ExecEntry{"End Time", time.Now().Format(timeLayout)})

	e.entries = nil

	e.recorder.Flush()
}
