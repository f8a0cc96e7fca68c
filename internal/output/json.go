package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope of a failed command.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// errorFields splits err into message, code and details. Errors without a
// code are internal errors.
func errorFields(err error) (string, string, map[string]any) {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.Message, cliErr.Code, cliErr.Details
	}
	return err.Error(), clierr.InternalError, nil
}

// JSONError writes err as an ErrorResponse.
func JSONError(w io.Writer, err error) {
	msg, code, details := errorFields(err)
	_ = JSON(w, ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult is the outcome for one task ref of a multi-task command.
type BatchResult struct {
	Ref   string `json:"ref"`
	ID    string `json:"id,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// NewBatchResult records the outcome for ref, which resolved to task id
// (empty when it did not resolve).
func NewBatchResult(ref, id string, err error) BatchResult {
	r := BatchResult{Ref: ref, ID: id, OK: err == nil}
	if err != nil {
		r.Error, r.Code, _ = errorFields(err)
	}
	return r
}

// BatchReport is the JSON shape of a multi-task command.
type BatchReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []BatchResult `json:"results"`
}

// NewBatchReport counts results.
func NewBatchReport(results []BatchResult) BatchReport {
	rep := BatchReport{Results: results}
	for _, r := range results {
		if r.OK {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
	}
	return rep
}
