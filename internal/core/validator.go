package core

import "context"

// Validator is the contract every provider adapter implements.
//
// Validate probes the provider's API with the key as bearer credential and
// records the outcome on the key itself. It performs one primary capability
// probe plus at most a couple of optional secondary probes, each under its
// own timeout. It never panics and never lets a transport, timeout, or decode
// failure escape: every failure becomes data on the returned key. When the
// key carries a different provider tag than the adapter expects, the adapter
// rebuilds it under its own tag (see Reattribute) and validates that; a nil
// key yields nil, the only "no result" case.
//
// FormatResults is pure and total: it accepts a key in any validity state and
// never performs I/O.
type Validator interface {
	Provider() Provider
	Validate(ctx context.Context, key *Key) *Key
	FormatResults(key *Key) Report
}

// Report is the flat record handed to the display and history layers.
type Report struct {
	Provider string          `json:"provider"`
	Validity Validity        `json:"is_valid"`
	Message  string          `json:"message"`
	Err      string          `json:"error,omitempty"`
	Hint     string          `json:"key,omitempty"`
	Fields   []Field         `json:"fields,omitempty"`
	Summary  *AccountSummary `json:"account_summary,omitempty"`
	Usage    *UsagePeriod    `json:"usage,omitempty"`
}

// Field is one provider-specific display line, kept ordered.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AddField appends a display line.
func (r *Report) AddField(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Field looks up a display line by name.
func (r Report) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// BaseReport builds the part of a report common to all adapters: provider
// name, validity, message, transport detail, and the redacted key hint. It
// tolerates a nil key so FormatResults stays total.
func BaseReport(provider Provider, key *Key) Report {
	rep := Report{Provider: provider.DisplayName()}
	if key == nil {
		rep.Message = "no validation result"
		return rep
	}
	rep.Validity = key.Validity
	rep.Message = key.Message
	rep.Err = key.Err
	rep.Hint = key.Hint()
	return rep
}
