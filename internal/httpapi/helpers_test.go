package httpapi

import (
	"io"
	"net/http"
	"strings"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func newRequest(method, url string, body io.Reader) (*http.Request, error) {
	return http.NewRequest(method, url, body)
}
