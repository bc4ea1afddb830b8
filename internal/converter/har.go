package converter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/studiowebux/hac/internal/collection"
)

// HARFile represents the HAR file structure
type HARFile struct {
	Log HARLog `json:"log"`
}

// HARLog represents the log section of HAR
type HARLog struct {
	Version string     `json:"version"`
	Entries []HAREntry `json:"entries"`
}

// HAREntry represents a single recorded exchange. Only the request side is
// imported.
type HAREntry struct {
	Request HARRequest `json:"request"`
}

// HARRequest represents the request part of an entry
type HARRequest struct {
	Method   string       `json:"method"`
	URL      string       `json:"url"`
	Headers  []HARHeader  `json:"headers"`
	PostData *HARPostData `json:"postData,omitempty"`
}

// HARHeader represents a single header
type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARPostData represents POST data
type HARPostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// HARToNodes converts the entries of a HAR file into one directory per host.
// Entries that are not http(s), use a method hac does not support, or do
// not contain filter in their URL are skipped. skipped reports how many.
func HARToNodes(data []byte, filter string, opts Options) (nodes []collection.RequestNode, skipped int, err error) {
	var har HARFile
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, 0, fmt.Errorf("failed to parse HAR file: %w", err)
	}
	if len(har.Log.Entries) == 0 {
		return nil, 0, fmt.Errorf("no entries found in HAR file")
	}

	byHost := make(map[string]*collection.Directory)
	for _, entry := range har.Log.Entries {
		req, host, ok := harRequest(entry.Request, filter, opts)
		if !ok {
			skipped++
			continue
		}

		dir, exists := byHost[host]
		if !exists {
			dir = &collection.Directory{Name: host}
			byHost[host] = dir
			nodes = append(nodes, collection.RequestNode{Directory: dir})
		}
		dir.Requests = append(dir.Requests, collection.RequestNode{Request: &req})
	}

	return nodes, skipped, nil
}

func harRequest(hr HARRequest, filter string, opts Options) (collection.Request, string, bool) {
	if filter != "" && !strings.Contains(hr.URL, filter) {
		return collection.Request{}, "", false
	}
	parsed, err := url.Parse(hr.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return collection.Request{}, "", false
	}
	method, err := collection.ParseMethod(hr.Method)
	if err != nil {
		return collection.Request{}, "", false
	}

	req := collection.Request{
		Method: method,
		Name:   SuggestName(method, hr.URL),
		URI:    hr.URL,
	}
	for _, h := range hr.Headers {
		// pseudo headers and transport headers are regenerated by the client
		lower := strings.ToLower(h.Name)
		if strings.HasPrefix(lower, ":") || lower == "content-length" || lower == "host" || h.Value == "" {
			continue
		}
		req.Headers = append(req.Headers, collection.Header{Name: h.Name, Value: h.Value, Enabled: true})
	}
	if !opts.ImportHeaders {
		maskSensitive(req.Headers)
	}
	if hr.PostData != nil && hr.PostData.Text != "" {
		body := hr.PostData.Text
		req.BodyKind = collection.BodyJSON
		req.Body = &body
	}
	req.Normalize()

	return req, parsed.Host, true
}
