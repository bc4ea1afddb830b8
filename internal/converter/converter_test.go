package converter

import (
	"testing"

	"github.com/studiowebux/hac/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurlToRequest(t *testing.T) {
	cmd := `curl -X PUT 'https://api.example.com/users/42' \
  -H "Content-Type: application/json" \
  -H 'Authorization: Bearer secret' \
  --data-raw '{"name": "Ada"}' --compressed`

	req, err := CurlToRequest(cmd, Options{})
	require.NoError(t, err)

	assert.Equal(t, collection.MethodPut, req.Method)
	assert.Equal(t, "https://api.example.com/users/42", req.URI)
	assert.Equal(t, "PUT /users/42", req.Name)
	require.Len(t, req.Headers, 2)
	assert.Equal(t, "application/json", req.Headers[0].Value)
	assert.True(t, req.Headers[0].Enabled)
	assert.Equal(t, "<authorization>", req.Headers[1].Value)
	assert.False(t, req.Headers[1].Enabled)
	assert.Equal(t, collection.BodyJSON, req.BodyKind)
	require.NotNil(t, req.Body)
	assert.Equal(t, `{"name": "Ada"}`, *req.Body)
	assert.Empty(t, req.ID)
}

func TestCurlToRequestDefaults(t *testing.T) {
	req, err := CurlToRequest(`curl -s http://localhost:8080`, Options{})
	require.NoError(t, err)
	assert.Equal(t, collection.MethodGet, req.Method)
	assert.Equal(t, collection.BodyNone, req.BodyKind)
	assert.Nil(t, req.Body)
	assert.Equal(t, "GET localhost:8080", req.Name)

	req, err = CurlToRequest(`curl http://localhost/items -d '{}'`, Options{Name: "create"})
	require.NoError(t, err)
	assert.Equal(t, collection.MethodPost, req.Method, "data without -X implies POST")
	assert.Equal(t, "create", req.Name)
}

func TestCurlToRequestKeepsSecretsWhenAsked(t *testing.T) {
	req, err := CurlToRequest(`curl -H "X-Api-Key: k1" --url http://localhost/`, Options{ImportHeaders: true})
	require.NoError(t, err)
	require.Len(t, req.Headers, 1)
	assert.Equal(t, "k1", req.Headers[0].Value)
	assert.True(t, req.Headers[0].Enabled)
}

func TestCurlToRequestErrors(t *testing.T) {
	tests := map[string]string{
		"no url":          `curl -X GET`,
		"missing value":   `curl http://localhost -H`,
		"unterminated":    `curl 'http://localhost`,
		"unknown method":  `curl -X TRACE http://localhost`,
	}
	for name, cmd := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := CurlToRequest(cmd, Options{})
			assert.Error(t, err)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`curl "a \"b\"" 'c d' e\ f`)
	require.NoError(t, err)
	assert.Equal(t, []string{"curl", `a "b"`, "c d", "e f"}, args)
}

func TestSplitArgsJoinsContinuations(t *testing.T) {
	args, err := splitArgs("curl \\\n  -H 'Accept: */*' \\\r\n  http://localhost")
	require.NoError(t, err)
	assert.Equal(t, []string{"curl", "-H", "Accept: */*", "http://localhost"}, args)
}

const harData = `{"log": {"version": "1.2", "entries": [
  {"request": {"method": "GET", "url": "https://a.example.com/items", "headers": [
    {"name": ":authority", "value": "a.example.com"},
    {"name": "Accept", "value": "application/json"},
    {"name": "Cookie", "value": "session=1"}
  ]}},
  {"request": {"method": "POST", "url": "https://a.example.com/items", "headers": [],
    "postData": {"mimeType": "application/json", "text": "{\"a\":1}"}}},
  {"request": {"method": "GET", "url": "https://b.example.com/", "headers": []}},
  {"request": {"method": "OPTIONS", "url": "https://b.example.com/", "headers": []}},
  {"request": {"method": "GET", "url": "wss://b.example.com/socket", "headers": []}}
]}}`

func TestHARToNodes(t *testing.T) {
	nodes, skipped, err := HARToNodes([]byte(harData), "", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, nodes, 2)

	a := nodes[0].Directory
	require.NotNil(t, a)
	assert.Equal(t, "a.example.com", a.Name)
	require.Len(t, a.Requests, 2)

	get := a.Requests[0].Request
	require.Len(t, get.Headers, 2, "pseudo headers are dropped")
	assert.Equal(t, "Accept", get.Headers[0].Name)
	assert.False(t, get.Headers[1].Enabled, "cookie is masked")

	post := a.Requests[1].Request
	assert.Equal(t, collection.BodyJSON, post.BodyKind)
	assert.Equal(t, `{"a":1}`, *post.Body)

	assert.Equal(t, "b.example.com", nodes[1].Directory.Name)
}

func TestHARToNodesFilterAndErrors(t *testing.T) {
	nodes, skipped, err := HARToNodes([]byte(harData), "b.example.com", Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	require.Len(t, nodes, 1)

	_, _, err = HARToNodes([]byte(`{"log": {"entries": []}}`), "", Options{})
	assert.Error(t, err)
	_, _, err = HARToNodes([]byte(`not json`), "", Options{})
	assert.Error(t, err)
}
