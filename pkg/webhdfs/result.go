package webhdfs

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one operation. It is built per call, handed to
// the Reporter and not retained.
type Result struct {
	Op     Operation
	Target string
	// Local is the local path involved in a transfer or local operation.
	Local    string
	Kind     Kind
	Bytes    int64
	Entries  int
	Duration time.Duration
	// StatusCode is the status of the failing gateway response, if any.
	StatusCode int
	// Boolean is the MKDIRS or DELETE reply.
	Boolean bool
	// Created is set when LocalCd had to create the directory.
	Created bool
	Err     error
}

// OK reports whether the operation succeeded.
func (r *Result) OK() bool {
	return r.Kind == KindSuccess
}

// Message renders r as one human-readable line.
func (r *Result) Message() string {
	if r.OK() {
		return r.successMessage()
	}
	return fmt.Sprintf("%s: %s", r.failurePrefix(), r.cause())
}

func (r *Result) successMessage() string {
	switch r.Op {
	case OpMkdirs:
		if !r.Boolean {
			return fmt.Sprintf("Directory %s was not created (gateway returned false).", r.Target)
		}
		return fmt.Sprintf("Directory %s created successfully.", r.Target)
	case OpCreate:
		return fmt.Sprintf("File %s uploaded successfully.", r.Target)
	case OpOpen:
		return fmt.Sprintf("File %s downloaded successfully.", r.Target)
	case OpAppend:
		return fmt.Sprintf("File %s appended successfully to %s.", r.Local, r.Target)
	case OpDelete:
		if !r.Boolean {
			return fmt.Sprintf("File or directory %s was not deleted (gateway returned false).", r.Target)
		}
		return fmt.Sprintf("File or directory %s deleted successfully.", r.Target)
	case OpListStatus:
		return fmt.Sprintf("Listed %d entries in %s.", r.Entries, r.Target)
	case OpLocalList:
		return fmt.Sprintf("Listed %d local entries in %s.", r.Entries, r.Local)
	case OpLocalCd:
		if r.Created {
			return fmt.Sprintf("Directory %s created. Changed local directory to %s", r.Local, r.Local)
		}
		return fmt.Sprintf("Changed local directory to %s", r.Local)
	default:
		return fmt.Sprintf("%s %s succeeded.", r.Op, r.Target)
	}
}

func (r *Result) failurePrefix() string {
	initiating := false
	var remoteErr *RemoteError
	if errors.As(r.Err, &remoteErr) {
		initiating = remoteErr.Phase == PhaseInitiate
	}
	switch r.Op {
	case OpMkdirs:
		return fmt.Sprintf("Error creating directory %s", r.Target)
	case OpCreate:
		if initiating {
			return fmt.Sprintf("Error initiating file upload %s", r.Target)
		}
		return fmt.Sprintf("Error uploading file %s", r.Target)
	case OpOpen:
		if initiating {
			return fmt.Sprintf("Error initiating file download %s", r.Target)
		}
		return fmt.Sprintf("Error downloading file %s", r.Target)
	case OpAppend:
		if initiating {
			return fmt.Sprintf("Error initiating append for %s to %s", r.Local, r.Target)
		}
		return fmt.Sprintf("Error appending file %s to %s", r.Local, r.Target)
	case OpDelete:
		return fmt.Sprintf("Error deleting file or directory %s", r.Target)
	case OpListStatus:
		return fmt.Sprintf("Error listing directory %s", r.Target)
	case OpLocalList:
		return fmt.Sprintf("Error listing local directory %s", r.Local)
	case OpLocalCd:
		return fmt.Sprintf("Error changing local directory to %s", r.Local)
	default:
		return fmt.Sprintf("Error in %s %s", r.Op, r.Target)
	}
}

func (r *Result) cause() string {
	var remoteErr *RemoteError
	if errors.As(r.Err, &remoteErr) && remoteErr.Err == nil {
		return remoteErr.Body.String()
	}
	if r.Err == nil {
		return "unknown error"
	}
	return r.Err.Error()
}

// Reporter observes the Result of every operation.
type Reporter interface {
	Report(r *Result)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(r *Result)

func (f ReporterFunc) Report(r *Result) { f(r) }

// DiscardReporter drops every result.
var DiscardReporter Reporter = ReporterFunc(func(*Result) {})

// MultiReporter fans results out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(r *Result) {
	for _, rep := range m {
		if rep != nil {
			rep.Report(r)
		}
	}
}

// LogReporter writes results to a logrus logger: successes at info level,
// failures at warn level.
type LogReporter struct {
	Log logrus.FieldLogger
}

func (l LogReporter) Report(r *Result) {
	if l.Log == nil {
		return
	}
	entry := l.Log.WithFields(logrus.Fields{
		"op":       string(r.Op),
		"target":   r.Target,
		"kind":     string(r.Kind),
		"bytes":    r.Bytes,
		"duration": r.Duration,
	})
	if r.Local != "" {
		entry = entry.WithField("local", r.Local)
	}
	if r.StatusCode != 0 {
		entry = entry.WithField("status", r.StatusCode)
	}
	if r.OK() {
		entry.Info(r.Message())
		return
	}
	entry.Warn(r.Message())
}

// ConsoleReporter prints one line per result, green for success and red for
// failures.
type ConsoleReporter struct {
	mu   sync.Mutex
	w    io.Writer
	ok   *color.Color
	fail *color.Color
}

// NewConsoleReporter writes to w. Colors follow fatih/color's terminal
// detection unless noColor is set.
func NewConsoleReporter(w io.Writer, noColor bool) *ConsoleReporter {
	c := &ConsoleReporter{
		w:    w,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
	}
	if noColor {
		c.ok.DisableColor()
		c.fail.DisableColor()
	}
	return c
}

func (c *ConsoleReporter) Report(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.OK() {
		c.ok.Fprintln(c.w, r.Message())
		return
	}
	c.fail.Fprintln(c.w, r.Message())
}
