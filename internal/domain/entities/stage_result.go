package entities

import "time"

// StageResult is the outcome of one subprocess invocation
type StageResult struct {
	Command  []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
	Err      error // set when the process could not be started or waited on
}

// Success reports whether the process ran and exited with status 0
func (r *StageResult) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}
