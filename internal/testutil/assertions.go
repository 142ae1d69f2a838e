package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bodyPreview is how much of a body failure messages show
const bodyPreview = 500

// ResponseAssertion chains checks against one HTTP response. The body is
// read at most once, on first use.
type ResponseAssertion struct {
	t    *testing.T
	resp *http.Response
	body []byte
	read bool
}

// AssertResponse starts a chain of checks for resp
func AssertResponse(t *testing.T, resp *http.Response) *ResponseAssertion {
	t.Helper()
	require.NotNil(t, resp)
	return &ResponseAssertion{t: t, resp: resp}
}

func (ra *ResponseAssertion) bytes() []byte {
	ra.t.Helper()
	if !ra.read {
		defer ra.resp.Body.Close()
		body, err := io.ReadAll(ra.resp.Body)
		require.NoError(ra.t, err, "reading response body")
		ra.body = body
		ra.read = true
	}
	return ra.body
}

func (ra *ResponseAssertion) text() string {
	ra.t.Helper()
	return string(ra.bytes())
}

func (ra *ResponseAssertion) preview() string {
	s := ra.text()
	if len(s) <= bodyPreview {
		return s
	}
	return s[:bodyPreview] + "..."
}

// Status checks the status code
func (ra *ResponseAssertion) Status(code int) *ResponseAssertion {
	ra.t.Helper()
	assert.Equal(ra.t, code, ra.resp.StatusCode, "status of %s", ra.resp.Request.URL.Path)
	return ra
}

// StatusOK checks for 200
func (ra *ResponseAssertion) StatusOK() *ResponseAssertion {
	ra.t.Helper()
	return ra.Status(http.StatusOK)
}

// ContentType checks that Content-Type contains expected
func (ra *ResponseAssertion) ContentType(expected string) *ResponseAssertion {
	ra.t.Helper()
	return ra.Header("Content-Type", expected)
}

// ContentTypeHTML checks for an HTML response
func (ra *ResponseAssertion) ContentTypeHTML() *ResponseAssertion {
	ra.t.Helper()
	return ra.ContentType("text/html")
}

// ContentTypeJSON checks for a JSON response
func (ra *ResponseAssertion) ContentTypeJSON() *ResponseAssertion {
	ra.t.Helper()
	return ra.ContentType("application/json")
}

// Header checks that the named header contains expected
func (ra *ResponseAssertion) Header(key, expected string) *ResponseAssertion {
	ra.t.Helper()
	assert.Contains(ra.t, ra.resp.Header.Get(key), expected, "header %s", key)
	return ra
}

// Location checks the redirect target
func (ra *ResponseAssertion) Location(expected string) *ResponseAssertion {
	ra.t.Helper()
	assert.Equal(ra.t, expected, ra.resp.Header.Get("Location"))
	return ra
}

// Contains checks that the body contains substr
func (ra *ResponseAssertion) Contains(substr string) *ResponseAssertion {
	ra.t.Helper()
	if !assert.Contains(ra.t, ra.text(), substr) {
		ra.t.Logf("body: %s", ra.preview())
	}
	return ra
}

// ContainsAll checks every substring in turn
func (ra *ResponseAssertion) ContainsAll(substrs ...string) *ResponseAssertion {
	ra.t.Helper()
	for _, s := range substrs {
		ra.Contains(s)
	}
	return ra
}

// NotContains checks that the body does not contain substr
func (ra *ResponseAssertion) NotContains(substr string) *ResponseAssertion {
	ra.t.Helper()
	assert.NotContains(ra.t, ra.text(), substr)
	return ra
}

// Matches checks the body against a regular expression
func (ra *ResponseAssertion) Matches(pattern string) *ResponseAssertion {
	ra.t.Helper()
	if !assert.Regexp(ra.t, regexp.MustCompile(pattern), ra.text()) {
		ra.t.Logf("body: %s", ra.preview())
	}
	return ra
}

// HasElement checks for an element with the given id attribute
func (ra *ResponseAssertion) HasElement(id string) *ResponseAssertion {
	ra.t.Helper()
	pattern := regexp.MustCompile(`id=["']` + regexp.QuoteMeta(id) + `["']`)
	assert.Regexp(ra.t, pattern, ra.text(), "element #%s", id)
	return ra
}

// HasClass checks for an element carrying the given class
func (ra *ResponseAssertion) HasClass(class string) *ResponseAssertion {
	ra.t.Helper()
	pattern := regexp.MustCompile(`class=["'][^"']*\b` + regexp.QuoteMeta(class) + `\b[^"']*["']`)
	assert.Regexp(ra.t, pattern, ra.text(), "class .%s", class)
	return ra
}

// JSON decodes the body into v
func (ra *ResponseAssertion) JSON(v any) *ResponseAssertion {
	ra.t.Helper()
	require.NoError(ra.t, json.Unmarshal(ra.bytes(), v), "decoding %s", ra.preview())
	return ra
}

// Body returns the raw response body
func (ra *ResponseAssertion) Body() []byte {
	ra.t.Helper()
	return ra.bytes()
}
