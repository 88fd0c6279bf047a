package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
)

// Exchange is one recorded request/response pair.
type Exchange struct {
	Method      string
	Path        string
	RequestBody string
	Status      int
	Body        string
}

// Result holds the exchanges of a run and any status mismatches.
type Result struct {
	Exchanges []Exchange
	Failures  []string
}

// Run plays every step of s against handler in order.
// A status mismatch is recorded as a failure and the run continues.
func Run(handler http.Handler, s *Scenario) (*Result, error) {
	res := &Result{}
	for i, step := range s.Steps {
		method, path, err := step.target()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		reqBody, err := step.encodeBody()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
		if len(reqBody) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range step.Header {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		ex := Exchange{
			Method:      method,
			Path:        path,
			RequestBody: string(reqBody),
			Status:      w.Code,
			Body:        canonicalJSON(w.Body.Bytes()),
		}
		res.Exchanges = append(res.Exchanges, ex)

		if w.Code != step.Status {
			res.Failures = append(res.Failures,
				fmt.Sprintf("step %d %s %s: status %d, want %d: %s", i+1, method, path, w.Code, step.Status, w.Body.String()))
		}
	}
	return res, nil
}

func (s Step) encodeBody() ([]byte, error) {
	switch {
	case s.Raw != nil:
		return []byte(*s.Raw), nil
	case s.Body != nil:
		b, err := json.Marshal(s.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		return b, nil
	default:
		return nil, nil
	}
}

// canonicalJSON re-indents a JSON body with sorted object keys.
// Non-JSON bodies are returned as-is.
func canonicalJSON(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}

// Transcript renders the exchanges in the golden file format.
func (r *Result) Transcript() []byte {
	var b bytes.Buffer
	for i, ex := range r.Exchanges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", ex.Method, ex.Path)
		if ex.RequestBody != "" {
			b.WriteString(ex.RequestBody + "\n")
		}
		fmt.Fprintf(&b, "-> %d\n", ex.Status)
		if ex.Body != "" {
			b.WriteString(ex.Body + "\n")
		}
	}
	return b.Bytes()
}
