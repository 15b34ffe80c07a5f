package report

import (
	"encoding/json"
	"io"
)

// JSONReporter renders a Report as indented JSON.
type JSONReporter struct{}

type jsonOutcome struct {
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

type jsonEntry struct {
	Check   string      `json:"check"`
	Outcome jsonOutcome `json:"outcome"`
}

type jsonOutput struct {
	Subject string      `json:"subject"`
	Valid   bool        `json:"valid"`
	Checks  []jsonEntry `json:"checks"`
}

// Write renders r to w.
func (jr *JSONReporter) Write(w io.Writer, r *Report) error {
	out := jsonOutput{
		Subject: r.Subject,
		Valid:   r.Valid(),
	}
	for _, e := range r.Ordered() {
		out.Checks = append(out.Checks, jsonEntry{
			Check: e.Check,
			Outcome: jsonOutcome{
				Status:   e.Outcome.Status.String(),
				Reason:   e.Outcome.Reason,
				Messages: e.Outcome.Messages,
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
