package http

import (
	nethttp "net/http"
	"sort"
)

// statusTexts lists the well-known codes of the status catalog. Codes not
// covered by net/http carry their own reason phrase.
var statusTexts = map[int]string{
	100: "", 101: "",
	201: "", 202: "", 203: "", 204: "", 205: "", 206: "",
	300: "", 301: "", 302: "", 303: "", 304: "", 305: "Use Proxy", 307: "",
	400: "", 401: "", 402: "", 403: "", 404: "", 405: "", 406: "", 407: "",
	408: "", 409: "", 410: "", 411: "", 412: "", 413: "", 414: "", 415: "",
	416: "", 417: "", 418: "", 420: "Enhance Your Calm",
	500: "", 501: "", 502: "", 503: "", 504: "", 505: "",
}

// Status returns the catalog template for code: a fresh Response carrying
// only the status code. Callers own the result and may enrich it freely.
func Status(code int) (*Response, bool) {
	if _, ok := statusTexts[code]; !ok {
		return nil, false
	}
	resp := NewResponse()
	resp.StatusCode = code
	return resp, true
}

// StatusCodes returns the catalog codes in ascending order.
func StatusCodes() []int {
	codes := make([]int, 0, len(statusTexts))
	for code := range statusTexts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// StatusText returns the reason phrase for code, or "" if unknown.
func StatusText(code int) string {
	if text := statusTexts[code]; text != "" {
		return text
	}
	return nethttp.StatusText(code)
}
