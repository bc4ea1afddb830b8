package collection

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// UnnamedDirectory is used when a directory is created or renamed with an empty name
	UnnamedDirectory = "unnamed directory"
	// UnnamedRequest is used when a request is created with an empty name
	UnnamedRequest = "unnamed request"
)

// Method is an HTTP method supported by requests
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Methods lists the supported methods in ring order
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// Next returns the following method, wrapping DELETE back to GET
func (m Method) Next() Method {
	for i, candidate := range Methods {
		if candidate == m {
			return Methods[(i+1)%len(Methods)]
		}
	}
	return MethodGet
}

// Prev returns the preceding method, wrapping GET back to DELETE
func (m Method) Prev() Method {
	for i, candidate := range Methods {
		if candidate == m {
			return Methods[(i+len(Methods)-1)%len(Methods)]
		}
	}
	return MethodGet
}

// Valid reports whether m is one of the supported methods
func (m Method) Valid() bool {
	for _, candidate := range Methods {
		if candidate == m {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod parses a method name case-insensitively
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}

// BodyKind tells the pipeline how a request body is sent
type BodyKind string

const (
	BodyNone BodyKind = "none"
	BodyJSON BodyKind = "json"
)

// Header is a request header that can be switched off without deleting it.
// Disabled headers are never sent.
type Header struct {
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Validate checks that both name and value are set
func (h Header) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("header name cannot be empty")
	}
	if strings.TrimSpace(h.Value) == "" {
		return fmt.Errorf("header %q value cannot be empty", h.Name)
	}
	return nil
}

// Request is a single stored HTTP request
type Request struct {
	ID       string   `json:"id" yaml:"id"`
	Method   Method   `json:"method" yaml:"method"`
	Name     string   `json:"name" yaml:"name"`
	URI      string   `json:"uri" yaml:"uri"`
	Headers  []Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	BodyKind BodyKind `json:"bodyType,omitempty" yaml:"bodyType,omitempty"`
	Body     *string  `json:"body,omitempty" yaml:"body,omitempty"`
}

// Normalize makes the body fields agree with each other.
// A JSON request always carries a body (possibly empty) and a request
// without body kind never carries one. Files written by hand may omit the
// kind, in which case the presence of a body decides it.
func (r *Request) Normalize() {
	if r.Method == "" {
		r.Method = MethodGet
	}
	switch r.BodyKind {
	case BodyJSON:
		if r.Body == nil {
			empty := ""
			r.Body = &empty
		}
	case BodyNone:
		r.Body = nil
	default:
		if r.Body != nil {
			r.BodyKind = BodyJSON
		} else {
			r.BodyKind = BodyNone
		}
	}
}

// Clone returns a deep copy of the request
func (r Request) Clone() Request {
	out := r
	if r.Headers != nil {
		out.Headers = make([]Header, len(r.Headers))
		copy(out.Headers, r.Headers)
	}
	if r.Body != nil {
		body := *r.Body
		out.Body = &body
	}
	return out
}

// EnabledHeaders returns only the headers that should be sent
func (r Request) EnabledHeaders() []Header {
	var headers []Header
	for _, h := range r.Headers {
		if h.Enabled {
			headers = append(headers, h)
		}
	}
	return headers
}

// Directory groups requests and other directories
type Directory struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Requests []RequestNode `json:"requests" yaml:"requests"`
}

// RequestNode is either a request or a directory.
// Exactly one of the two fields is set.
type RequestNode struct {
	Request   *Request
	Directory *Directory
}

// IsDir reports whether the node is a directory
func (n RequestNode) IsDir() bool {
	return n.Directory != nil
}

// ID returns the id of whichever variant is set
func (n RequestNode) ID() string {
	if n.Directory != nil {
		return n.Directory.ID
	}
	if n.Request != nil {
		return n.Request.ID
	}
	return ""
}

// Name returns the display name of whichever variant is set
func (n RequestNode) Name() string {
	if n.Directory != nil {
		return n.Directory.Name
	}
	if n.Request != nil {
		return n.Request.Name
	}
	return ""
}

// MarshalJSON writes the variant without a wrapping key
func (n RequestNode) MarshalJSON() ([]byte, error) {
	if n.Directory != nil {
		return json.Marshal(n.Directory)
	}
	if n.Request != nil {
		return json.Marshal(n.Request)
	}
	return nil, fmt.Errorf("empty request node")
}

// UnmarshalJSON picks the variant from the object shape: objects carrying a
// "requests" key are directories.
func (n *RequestNode) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("invalid request node: %w", err)
	}

	if _, ok := probe["requests"]; ok {
		var dir Directory
		if err := json.Unmarshal(data, &dir); err != nil {
			return fmt.Errorf("invalid directory: %w", err)
		}
		n.Directory = &dir
		n.Request = nil
		return nil
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	n.Request = &req
	n.Directory = nil
	return nil
}

// MarshalYAML writes the variant without a wrapping key
func (n RequestNode) MarshalYAML() (interface{}, error) {
	if n.Directory != nil {
		return n.Directory, nil
	}
	if n.Request != nil {
		return n.Request, nil
	}
	return nil, fmt.Errorf("empty request node")
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML collection files
func (n *RequestNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("invalid request node at line %d: expected a mapping", value.Line)
	}

	isDir := false
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "requests" {
			isDir = true
			break
		}
	}

	if isDir {
		var dir Directory
		if err := value.Decode(&dir); err != nil {
			return fmt.Errorf("invalid directory: %w", err)
		}
		n.Directory = &dir
		n.Request = nil
		return nil
	}

	var req Request
	if err := value.Decode(&req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	n.Request = &req
	n.Directory = nil
	return nil
}

// Info holds the collection metadata
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Collection is one file on disk holding a tree of requests
type Collection struct {
	Info     Info          `json:"info" yaml:"info"`
	Requests []RequestNode `json:"requests,omitempty" yaml:"requests,omitempty"`

	// Path is where the collection was loaded from; it is not serialized
	Path string `json:"-" yaml:"-"`
}

// CountRequests returns the number of requests at any depth
func (c Collection) CountRequests() int {
	return countRequests(c.Requests)
}

func countRequests(nodes []RequestNode) int {
	total := 0
	for _, n := range nodes {
		if n.Directory != nil {
			total += countRequests(n.Directory.Requests)
		} else if n.Request != nil {
			total++
		}
	}
	return total
}
