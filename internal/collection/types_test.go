package collection

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMethodRing(t *testing.T) {
	for _, start := range Methods {
		m := start
		for i := 0; i < len(Methods); i++ {
			m = m.Next()
		}
		if m != start {
			t.Errorf("Expected five Next() calls on %s to return %s, got %s", start, start, m)
		}
		if start.Next().Prev() != start {
			t.Errorf("Expected Prev to undo Next for %s", start)
		}
	}

	if MethodDelete.Next() != MethodGet {
		t.Errorf("Expected DELETE to wrap to GET, got %s", MethodDelete.Next())
	}
	if MethodGet.Prev() != MethodDelete {
		t.Errorf("Expected GET to wrap back to DELETE, got %s", MethodGet.Prev())
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"get", MethodGet, false},
		{" PATCH ", MethodPatch, false},
		{"delete", MethodDelete, false},
		{"OPTIONS", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	body := `{"x":1}`

	r := Request{BodyKind: BodyJSON}
	r.Normalize()
	if r.Body == nil {
		t.Error("Expected JSON request to get an empty body")
	}

	r = Request{BodyKind: BodyNone, Body: &body}
	r.Normalize()
	if r.Body != nil {
		t.Errorf("Expected body to be dropped, got %q", *r.Body)
	}

	r = Request{Body: &body}
	r.Normalize()
	if r.BodyKind != BodyJSON {
		t.Errorf("Expected kind to be inferred as json, got %q", r.BodyKind)
	}
	if r.Method != MethodGet {
		t.Errorf("Expected default method GET, got %s", r.Method)
	}
}

func TestHeaderValidate(t *testing.T) {
	if err := (Header{Name: "Accept", Value: "*/*"}).Validate(); err != nil {
		t.Errorf("Expected valid header, got %v", err)
	}
	if err := (Header{Name: "", Value: "x"}).Validate(); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := (Header{Name: "X", Value: " "}).Validate(); err == nil {
		t.Error("Expected error for empty value")
	}
}

func TestEnabledHeaders(t *testing.T) {
	r := Request{Headers: []Header{
		{Name: "A", Value: "1", Enabled: true},
		{Name: "B", Value: "2", Enabled: false},
		{Name: "C", Value: "3", Enabled: true},
	}}

	got := r.EnabledHeaders()
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("Expected headers A and C, got %+v", got)
	}
}

const sampleJSON = `{
  "info": {"name": "api"},
  "requests": [
    {"id": "r1", "method": "GET", "name": "health", "uri": "http://localhost/health"},
    {"id": "d1", "name": "users", "requests": [
      {"id": "r2", "method": "POST", "name": "create", "uri": "http://localhost/users",
       "headers": [{"name": "Accept", "value": "application/json", "enabled": true}],
       "bodyType": "json", "body": "{}"}
    ]}
  ]
}`

func TestUnmarshalCollectionJSON(t *testing.T) {
	var c Collection
	if err := json.Unmarshal([]byte(sampleJSON), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if c.Info.Name != "api" {
		t.Errorf("Expected name api, got %s", c.Info.Name)
	}
	if len(c.Requests) != 2 {
		t.Fatalf("Expected 2 root nodes, got %d", len(c.Requests))
	}
	if c.Requests[0].IsDir() {
		t.Error("Expected first node to be a request")
	}
	dir := c.Requests[1].Directory
	if dir == nil {
		t.Fatal("Expected second node to be a directory")
	}
	if len(dir.Requests) != 1 || dir.Requests[0].Request.BodyKind != BodyJSON {
		t.Errorf("Expected one JSON request in directory, got %+v", dir.Requests)
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var again Collection
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("Unmarshal of marshalled collection failed: %v", err)
	}
	if again.CountRequests() != 2 {
		t.Errorf("Expected 2 requests after re-decoding, got %d", again.CountRequests())
	}
}

const sampleYAML = `
info:
  name: api
requests:
  - id: r1
    method: GET
    name: health
    uri: http://localhost/health
  - id: d1
    name: empty dir
    requests: []
`

func TestUnmarshalCollectionYAML(t *testing.T) {
	var c Collection
	if err := yaml.Unmarshal([]byte(sampleYAML), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(c.Requests) != 2 {
		t.Fatalf("Expected 2 root nodes, got %d", len(c.Requests))
	}
	if c.Requests[0].Request == nil || c.Requests[0].Request.URI != "http://localhost/health" {
		t.Errorf("Expected health request, got %+v", c.Requests[0])
	}
	if !c.Requests[1].IsDir() {
		t.Error("Expected a directory even with no children")
	}
}
