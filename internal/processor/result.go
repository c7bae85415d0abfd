package processor

import (
	"context"
	"errors"

	"codeberg.org/snonux/vocabtts/internal/audio"
)

// Outcome is the terminal state of one word
type Outcome int

const (
	Success Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// FailureKind tells why a word failed
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureHTTPStatus
	FailureEncoding
	FailureTimeout
	FailureTransport
	FailureWrite
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureHTTPStatus:
		return "http status"
	case FailureEncoding:
		return "encoding"
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	case FailureWrite:
		return "write"
	case FailureCanceled:
		return "canceled"
	}
	return "unknown"
}

// Result is the outcome of converting one word
type Result struct {
	Index      int // 1-based position in the batch, 0 for a single word
	Word       string
	Outcome    Outcome
	OutputPath string // Set on success
	Reason     string // Set when skipped, e.g. "empty"
	Failure    FailureKind
	StatusCode int // Set for FailureHTTPStatus
	Err        error
}

func failed(index int, word string, kind FailureKind, err error) Result {
	return Result{Index: index, Word: word, Outcome: Failed, Failure: kind, Err: err}
}

// classify maps a provider error to a failure kind
func classify(err error) (FailureKind, int) {
	var statusErr *audio.StatusError
	switch {
	case errors.As(err, &statusErr):
		return FailureHTTPStatus, statusErr.StatusCode
	case errors.Is(err, audio.ErrTimeout):
		return FailureTimeout, 0
	case errors.Is(err, context.Canceled):
		return FailureCanceled, 0
	case errors.Is(err, audio.ErrWriteOutput):
		return FailureWrite, 0
	}
	return FailureTransport, 0
}

// Summary counts the outcomes of a batch
type Summary struct {
	Total     int
	Converted int
	Skipped   int
	Failed    int
}

// Summarize counts the results per outcome
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case Success:
			s.Converted++
		case Skipped:
			s.Skipped++
		case Failed:
			s.Failed++
		}
	}
	return s
}
