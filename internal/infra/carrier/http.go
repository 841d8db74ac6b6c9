package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"order-tracker/internal/pkg/errs"
)

const maxErrorBody = 512

// UpstreamError is a non-2xx answer from a carrier API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// ClientError reports a 4xx answer other than authentication failures.
func (e *UpstreamError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != http.StatusUnauthorized && e.StatusCode != http.StatusForbidden &&
		e.StatusCode != http.StatusTooManyRequests
}

// NewHTTPClient bounds every carrier call with timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

type apiClient struct {
	client  *http.Client
	baseURL string
}

func newAPIClient(client *http.Client, baseURL string) apiClient {
	return apiClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c apiClient) doJSON(ctx context.Context, method, path string, header http.Header, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
		if header == nil {
			header = http.Header{}
		}
		header.Set("Content-Type", "application/json")
	}
	return c.do(ctx, method, path, header, body, out)
}

func (c apiClient) do(ctx context.Context, method, path string, header http.Header, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errs.Wrap(err, "build request")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

// rejection extracts a carrier's validation message from a 4xx answer.
// ok is false for transport failures and server errors.
func rejection(err error) (msg string, ok bool) {
	var ue *UpstreamError
	if !errs.As(err, &ue) || !ue.ClientError() {
		return "", false
	}
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
		Error   string              `json:"error"`
	}
	if json.Unmarshal([]byte(ue.Body), &body) == nil {
		for field, list := range body.Errors {
			if len(list) > 0 {
				return field + ": " + list[0], true
			}
		}
		if body.Message != "" {
			return body.Message, true
		}
		if body.Error != "" {
			return body.Error, true
		}
	}
	if ue.Body != "" {
		return ue.Body, true
	}
	return http.StatusText(ue.StatusCode), true
}

var ist = time.FixedZone("IST", 5*60*60+30*60)

var carrierTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 02, 2006",
}

// parseCarrierTime reads the timestamp formats carriers emit, interpreting
// zone-less values as IST.
func parseCarrierTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range carrierTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, ist); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timePtr(s string) *time.Time {
	t, ok := parseCarrierTime(s)
	if !ok {
		return nil
	}
	return &t
}
