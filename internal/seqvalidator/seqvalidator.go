// Package seqvalidator validates a CityJSONSeq stream: one CityJSON
// header line followed by any number of CityJSONFeature lines.
package seqvalidator

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cityjson/cjval/internal/engine"
	"github.com/cityjson/cjval/internal/report"
	"github.com/cityjson/cjval/internal/schema"
)

// State is where a SequenceValidator is in the stream's lifecycle.
type State int

const (
	// StateExpectingHeader means no line has been read yet.
	StateExpectingHeader State = iota
	// StateStreaming means the header was read and features are
	// arriving.
	StateStreaming
	// StateTerminated means the stream ended (EOF or a fatal error).
	StateTerminated
)

// LineReport pairs a 1-based line number with its validation Report.
type LineReport struct {
	Line   int
	Report *report.Report
}

// Summary is the result of validating a whole CityJSONSeq stream.
type Summary struct {
	Lines         []LineReport
	TotalErrors   int
	TotalWarnings int
	// FatalError is set if the stream could not be processed at all
	// (e.g. the first line was not a CityJSON header), as distinct from
	// a per-line validation failure.
	FatalError error
}

// Valid reports whether every line validated cleanly.
func (s *Summary) Valid() bool {
	return s.FatalError == nil && s.TotalErrors == 0
}

// SequenceValidator drives line-by-line validation of a CityJSONSeq
// stream, sharing one schema Registry, one header ExtensionStore, and
// the header's vertex table across every feature line.
type SequenceValidator struct {
	registry *schema.Registry
	state    State
}

// New returns a SequenceValidator backed by registry.
func New(registry *schema.Registry) *SequenceValidator {
	return &SequenceValidator{registry: registry, state: StateExpectingHeader}
}

// State returns the validator's current position in the stream.
func (sv *SequenceValidator) State() State { return sv.state }

// Validate reads r line by line. The first non-empty line must be a
// CityJSON header; every subsequent non-empty line must be a
// CityJSONFeature. Blank lines are skipped, never fatal (spec.md §4.6,
// lines 119/140). A line whose JSON parses but whose "type" doesn't
// match its position (a header where a feature is expected, or vice
// versa) is reported per spec.md §4.6's "otherwise error" requirement:
// a mispositioned header is stream-fatal (nothing downstream has a
// registry/ExtensionStore to share without one), while a mispositioned
// feature line only fails its own line, preserving the "Seq
// independence" property that one bad feature line doesn't affect
// others.
//
// The header Validator is built once; extend, if non-nil, is called
// with it before it runs so a caller can register Extensions (fetched
// by URL, or read from local files) that every feature line then
// borrows, along with the header's vertex table, per spec.md §4.6's
// "borrows the header's SchemaRegistry and ExtensionStore" and
// "feature's local vertices... concatenated after the header's vertex
// table".
func (sv *SequenceValidator) Validate(r io.Reader, extend func(header *engine.Validator)) *Summary {
	summary := &Summary{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var fc engine.FeatureContext
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lineCopy := append([]byte(nil), line...)
		subject := fmt.Sprintf("line %d", lineNo)

		if sv.state == StateExpectingHeader {
			if t, parsed := lineType(lineCopy); parsed && t != "CityJSON" {
				summary.FatalError = fmt.Errorf("line %d: the first line must be a CityJSON header, got type %q", lineNo, t)
				sv.state = StateTerminated
				return summary
			}

			header := engine.FromBytes(lineCopy, sv.registry)
			if extend != nil {
				extend(header)
			}
			rep := header.Validate(subject)
			sv.recordLine(summary, lineNo, rep)

			fc = engine.FeatureContext{ExtStore: header.ExtStore(), HeaderVertices: headerVertices(header)}
			sv.state = StateStreaming
			continue
		}

		if t, parsed := lineType(lineCopy); parsed && t != "CityJSONFeature" {
			sv.recordLine(summary, lineNo, typeMismatchReport(subject, "CityJSONFeature", t))
			continue
		}

		v := engine.FromFeatureBytes(lineCopy, sv.registry, fc)
		rep := v.Validate(subject)
		sv.recordLine(summary, lineNo, rep)
	}

	if err := scanner.Err(); err != nil {
		summary.FatalError = err
	}
	sv.state = StateTerminated
	return summary
}

func (sv *SequenceValidator) recordLine(summary *Summary, lineNo int, rep *report.Report) {
	for _, e := range rep.Ordered() {
		switch e.Outcome.Status {
		case report.StatusErrors:
			summary.TotalErrors += len(e.Outcome.Messages)
		case report.StatusWarnings:
			summary.TotalWarnings += len(e.Outcome.Messages)
		}
	}
	summary.Lines = append(summary.Lines, LineReport{Line: lineNo, Report: rep})
}

// lineType reports the line's declared "type" field and whether the
// line is valid JSON at all. A line that fails to parse is left to the
// normal per-document validation path (it is reported as a json_syntax
// failure on its own line, not promoted to a position/type error).
func lineType(raw []byte) (string, bool) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", false
	}
	return head.Type, true
}

// headerVertices returns the header document's vertex table, or nil if
// the header failed to parse.
func headerVertices(header *engine.Validator) []any {
	doc := header.Document()
	if doc == nil {
		return nil
	}
	return doc.Vertices()
}

// typeMismatchReport builds the Report for a line whose JSON parsed but
// whose "type" doesn't match what its position in the stream requires.
func typeMismatchReport(subject, wantType, gotType string) *report.Report {
	r := report.New(subject)
	r.Set("json_syntax", report.Errors([]string{
		fmt.Sprintf("expected a %s, got type %q", wantType, gotType),
	}))
	for _, name := range report.CheckOrder[1:] {
		r.Set(name, report.NotRun("line is not the expected document type"))
	}
	return r
}
