package converter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/studiowebux/hac/internal/collection"
)

// sensitiveHeaders are replaced by a placeholder unless headers are imported
// verbatim
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
	"api-key":       true,
	"apikey":        true,
	"x-auth-token":  true,
	"auth-token":    true,
}

// Options controls how imported requests are built
type Options struct {
	// ImportHeaders keeps sensitive header values instead of masking them
	ImportHeaders bool
	// Name overrides the generated request name
	Name string
}

// CurlToRequest converts a cURL command line into a request. The request
// has no id; the store assigns one when it is inserted.
func CurlToRequest(curlCmd string, opts Options) (collection.Request, error) {
	args, err := splitArgs(curlCmd)
	if err != nil {
		return collection.Request{}, fmt.Errorf("failed to parse cURL command: %w", err)
	}
	if len(args) > 0 && args[0] == "curl" {
		args = args[1:]
	}

	var (
		method  string
		rawURL  string
		headers []collection.Header
		body    []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			return args[i], nil
		}

		switch {
		case arg == "-X" || arg == "--request":
			v, err := next()
			if err != nil {
				return collection.Request{}, err
			}
			method = strings.ToUpper(v)
		case strings.HasPrefix(arg, "-X") && len(arg) > 2:
			method = strings.ToUpper(arg[2:])
		case arg == "-H" || arg == "--header":
			v, err := next()
			if err != nil {
				return collection.Request{}, err
			}
			if h, ok := parseHeader(v); ok {
				headers = append(headers, h)
			}
		case arg == "-d" || arg == "--data" || arg == "--data-raw" ||
			arg == "--data-binary" || arg == "--data-ascii" || arg == "--json":
			v, err := next()
			if err != nil {
				return collection.Request{}, err
			}
			body = append(body, v)
			if arg == "--json" && !hasHeader(headers, "Content-Type") {
				headers = append(headers, collection.Header{Name: "Content-Type", Value: "application/json", Enabled: true})
			}
		case arg == "--url":
			v, err := next()
			if err != nil {
				return collection.Request{}, err
			}
			rawURL = v
		case arg == "-u" || arg == "--user" || arg == "-A" || arg == "--user-agent" ||
			arg == "-e" || arg == "--referer" || arg == "-o" || arg == "--output":
			// flags with a value that hac has no field for
			if _, err := next(); err != nil {
				return collection.Request{}, err
			}
		case strings.HasPrefix(arg, "-"):
			// boolean flags such as -s, -L, --compressed
		default:
			if rawURL == "" {
				rawURL = arg
			}
		}
	}

	if rawURL == "" {
		return collection.Request{}, fmt.Errorf("could not find URL in cURL command")
	}
	if _, err := url.Parse(rawURL); err != nil {
		return collection.Request{}, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if method == "" {
		method = "GET"
		if len(body) > 0 {
			method = "POST"
		}
	}
	m, err := collection.ParseMethod(method)
	if err != nil {
		return collection.Request{}, err
	}

	if !opts.ImportHeaders {
		maskSensitive(headers)
	}

	req := collection.Request{
		Method:  m,
		Name:    opts.Name,
		URI:     rawURL,
		Headers: headers,
	}
	if req.Name == "" {
		req.Name = SuggestName(m, rawURL)
	}
	if len(body) > 0 {
		joined := strings.Join(body, "&")
		req.BodyKind = collection.BodyJSON
		req.Body = &joined
	}
	req.Normalize()

	return req, nil
}

// SuggestName builds a request name from the method and the last path
// segments of the URL
func SuggestName(method collection.Method, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || strings.Trim(parsed.Path, "/") == "" {
		if err == nil && parsed.Host != "" {
			return fmt.Sprintf("%s %s", method, parsed.Host)
		}
		return collection.UnnamedRequest
	}
	return fmt.Sprintf("%s %s", method, parsed.Path)
}

func parseHeader(line string) (collection.Header, bool) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return collection.Header{}, false
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return collection.Header{}, false
	}
	return collection.Header{Name: name, Value: value, Enabled: true}, true
}

func hasHeader(headers []collection.Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// maskSensitive replaces secret values with a placeholder and disables the
// header so it is not sent until the user fills it in
func maskSensitive(headers []collection.Header) {
	for i := range headers {
		if sensitiveHeaders[strings.ToLower(headers[i].Name)] {
			headers[i].Value = "<" + strings.ToLower(headers[i].Name) + ">"
			headers[i].Enabled = false
		}
	}
}

// continuations joins the lines of a command split with trailing backslashes
var continuations = strings.NewReplacer("\\\r\n", " ", "\\\n", " ")

// splitArgs splits a shell command line into words
func splitArgs(line string) ([]string, error) {
	return shellwords.Parse(continuations.Replace(line))
}
