/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: decoder.go
Description: Fallback decoding orchestrator for the Inspector. Drives the candidate
sweep over a byte buffer: UTF-8 fast path first, then the ordered registry with
plausibility and script-mismatch filtering, short-circuiting on first acceptance.
Exhaustion yields the binary sentinel instead of an error.
*/

package charset

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// fastPathName is the encoding attempted before the registry sweep. It
// is the only candidate exempt from the script-mismatch heuristics, an
// asymmetry the detection matrix in the tests depends on.
const fastPathName = "utf-8"

// Result is the outcome of a full decode attempt. Either Binary is
// true, or Text holds the accepted decoding verbatim and Encoding
// names the candidate that produced it.
type Result struct {
	Text     string `json:"text"`
	Encoding string `json:"encoding"`
	Binary   bool   `json:"binary"`
}

// verdict is the per-candidate outcome inside one sweep. It never
// leaves the orchestrator except in aggregate (debug logs).
type verdict int

const (
	verdictAccepted verdict = iota
	verdictCorrupt
	verdictScriptMismatch
	verdictDecodeError
)

// String returns the verdict name for structured logging.
func (v verdict) String() string {
	switch v {
	case verdictAccepted:
		return "accepted"
	case verdictCorrupt:
		return "rejected_corrupt"
	case verdictScriptMismatch:
		return "rejected_script_mismatch"
	case verdictDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Engine decodes byte buffers of unknown origin into text, or reports
// them as binary. It holds no mutable state: every call operates only
// on its input and the immutable resolved registry, so a single Engine
// may be shared by any number of goroutines.
type Engine struct {
	candidates []resolvedCandidate
	logger     *logrus.Logger
}

// NewEngine builds an engine over an explicit candidate list. Every
// candidate name is resolved eagerly; an unknown name is a
// configuration fault and fails construction.
func NewEngine(candidates []Candidate) (*Engine, error) {
	resolved, err := resolveRegistry(candidates)
	if err != nil {
		return nil, err
	}
	return &Engine{
		candidates: resolved,
		logger:     logrus.StandardLogger(),
	}, nil
}

// NewDefaultEngine builds an engine over DefaultRegistry.
func NewDefaultEngine() (*Engine, error) {
	return NewEngine(DefaultRegistry())
}

// SetLogger replaces the logger used for per-candidate debug output.
func (e *Engine) SetLogger(logger *logrus.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Candidates returns the registry order the engine was built with.
func (e *Engine) Candidates() []Candidate {
	out := make([]Candidate, len(e.candidates))
	for i, c := range e.candidates {
		out[i] = c.Candidate
	}
	return out
}

// Decode recovers the most plausible text from a byte buffer.
//
// UTF-8 is attempted first as a fast path: if the buffer is valid
// UTF-8 and passes the plausibility filter it is accepted immediately,
// exempt from the script-mismatch heuristics. Otherwise the registry
// is swept in priority order; the first candidate that decodes
// strictly, looks like text, and survives its applicable heuristics
// wins. A buffer no candidate accepts is reported as binary - an
// expected outcome, not an error.
func (e *Engine) Decode(content []byte) Result {
	if utf8.Valid(content) {
		text := string(content)
		if isLikelyText(text) {
			return Result{Text: text, Encoding: fastPathName}
		}
		e.logAttempt(fastPathName, verdictCorrupt, len(content))
	} else {
		e.logAttempt(fastPathName, verdictDecodeError, len(content))
	}

	for _, c := range e.candidates {
		text, v := attempt(c, content)
		if v == verdictAccepted {
			return Result{Text: text, Encoding: c.Name}
		}
		e.logAttempt(c.Name, v, len(content))
	}

	return Result{Binary: true}
}

// attempt runs one candidate against the buffer: strict decode, then
// the plausibility filter, then whichever script-mismatch heuristics
// the candidate's flags select.
func attempt(c resolvedCandidate, content []byte) (string, verdict) {
	text, ok := decodeStrict(c, content)
	if !ok {
		return "", verdictDecodeError
	}
	if !isLikelyText(text) {
		return "", verdictCorrupt
	}
	if c.Western && westernMisreadsAsian(text) {
		return "", verdictScriptMismatch
	}
	if c.Asian && crossAsianMismatch(text, c.Katakana) {
		return "", verdictScriptMismatch
	}
	return text, verdictAccepted
}

// decodeStrict decodes the full buffer under one candidate. x/text
// decoders substitute U+FFFD for invalid sequences instead of
// returning an error, so any replacement rune in the output marks the
// byte sequence as invalid under this table. None of the candidate
// tables map a real byte sequence to U+FFFD, so the check is exact.
func decodeStrict(c resolvedCandidate, content []byte) (string, bool) {
	out, err := c.enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", false
	}
	text := string(out)
	if strings.ContainsRune(text, utf8.RuneError) {
		return "", false
	}
	return text, true
}

// logAttempt emits one debug line per rejected candidate.
func (e *Engine) logAttempt(name string, v verdict, size int) {
	if e.logger == nil {
		return
	}
	e.logger.WithFields(logrus.Fields{
		"candidate": name,
		"verdict":   v.String(),
		"size":      size,
	}).Debug("Decode candidate rejected")
}
