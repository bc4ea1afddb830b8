package executor

import (
	"bytes"
	"encoding/json"
	"mime"
	"strings"
)

// Decoder turns a raw response into a Response
type Decoder interface {
	Decode(raw RawResponse) Response
}

// JSONDecoder pretty prints JSON bodies. It is also the fallback decoder.
type JSONDecoder struct{}

// Decode re-indents the body. A body that is not valid JSON gets an empty
// pretty body.
func (JSONDecoder) Decode(raw RawResponse) Response {
	resp := baseResponse(raw)
	if len(raw.Body) == 0 {
		return resp
	}

	var out bytes.Buffer
	pretty := ""
	if err := json.Indent(&out, raw.Body, "", "  "); err == nil {
		pretty = out.String()
	}
	resp.PrettyBody = &pretty
	return resp
}

// TextDecoder passes text bodies through unchanged
type TextDecoder struct{}

// Decode uses the body as its own pretty form
func (TextDecoder) Decode(raw RawResponse) Response {
	resp := baseResponse(raw)
	if len(raw.Body) == 0 {
		return resp
	}
	pretty := string(raw.Body)
	resp.PrettyBody = &pretty
	return resp
}

func baseResponse(raw RawResponse) Response {
	status := raw.Status
	headersSize := HeadersSize(raw.Headers)

	resp := Response{
		Headers:     raw.Headers,
		Status:      &status,
		Duration:    raw.Duration,
		HeadersSize: headersSize,
		BodySize:    len(raw.Body),
		TotalSize:   headersSize + len(raw.Body),
	}
	if len(raw.Body) > 0 {
		body := string(raw.Body)
		resp.Body = &body
	}
	return resp
}

// DecoderFor picks a decoder from a Content-Type header value.
// Unknown or missing content types fall back to JSON.
func DecoderFor(contentType string) Decoder {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return JSONDecoder{}
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/xml",
		strings.HasSuffix(mediaType, "+xml"):
		return TextDecoder{}
	default:
		return JSONDecoder{}
	}
}
