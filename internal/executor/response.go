package executor

import (
	"net/http"
	"sort"
	"time"
)

// Header is a received response header
type Header struct {
	Name  string
	Value string
}

// Response is the outcome of one request. It is built once by a decoder, or
// by the strategy on transport failure, and never modified afterwards.
type Response struct {
	Body       *string
	PrettyBody *string
	Headers    []Header
	// Status is nil when no response was received
	Status      *int
	Duration    time.Duration
	HeadersSize int
	BodySize    int
	TotalSize   int
	IsError     bool
	Cause       string
}

// StatusCode returns the status or 0 when none was received
func (r Response) StatusCode() int {
	if r.Status == nil {
		return 0
	}
	return *r.Status
}

// RawResponse is what a strategy hands to a decoder
type RawResponse struct {
	Status   int
	Headers  []Header
	Body     []byte
	Duration time.Duration
}

// HeadersSize sums name and value lengths plus four bytes per header for
// the separator and line ending.
func HeadersSize(headers []Header) int {
	total := 0
	for _, h := range headers {
		total += len(h.Name) + len(h.Value) + 4
	}
	return total
}

// flattenHeaders turns the header map into one entry per value. Go does not
// keep the wire order of header names, so names are sorted to keep the
// output stable.
func flattenHeaders(h http.Header) []Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers []Header
	for _, name := range names {
		for _, value := range h[name] {
			headers = append(headers, Header{Name: name, Value: value})
		}
	}
	return headers
}

// errorResponse is returned when the request never produced a response
func errorResponse(err error, duration time.Duration) Response {
	return Response{
		Duration: duration,
		IsError:  true,
		Cause:    err.Error(),
	}
}
