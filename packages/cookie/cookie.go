// Package cookie implements the ordered name/value store sent in the
// Cookie request header.
//
// The wire form is "name1=value1; name2=value2". Names keep the order in
// which they were first set, so a parsed header serializes back to the
// same text for well-formed input.
package cookie

import "strings"

type pair struct {
	name  string
	value string
}

// Cookie is an ordered set of cookie values. A name appears at most once.
// A Cookie is not safe for concurrent use.
type Cookie struct {
	pairs []pair
}

// New returns an empty Cookie.
func New() *Cookie {
	return &Cookie{}
}

// Parse reads a Cookie header value. Segments are separated by ';' and
// split into name and value on the first '='. Surrounding whitespace is
// trimmed, empty segments are skipped and a segment without '=' becomes a
// name with an empty value. A repeated name keeps its first position and
// takes the last value.
func Parse(s string) *Cookie {
	c := New()
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, value, _ := strings.Cut(segment, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c.Set(name, strings.TrimSpace(value))
	}
	return c
}

func (c *Cookie) index(name string) int {
	for i, p := range c.pairs {
		if p.name == name {
			return i
		}
	}
	return -1
}

// Get returns the value stored for name, or "" if it is absent.
func (c *Cookie) Get(name string) string {
	if i := c.index(name); i >= 0 {
		return c.pairs[i].value
	}
	return ""
}

// Has reports whether name is present.
func (c *Cookie) Has(name string) bool {
	return c.index(name) >= 0
}

// Set stores value under name. An existing name keeps its position.
func (c *Cookie) Set(name, value string) *Cookie {
	if i := c.index(name); i >= 0 {
		c.pairs[i].value = value
		return c
	}
	c.pairs = append(c.pairs, pair{name: name, value: value})
	return c
}

// Remove deletes name if present.
func (c *Cookie) Remove(name string) *Cookie {
	if i := c.index(name); i >= 0 {
		c.pairs = append(c.pairs[:i], c.pairs[i+1:]...)
	}
	return c
}

// Merge sets every pair of other on c, in other's order.
func (c *Cookie) Merge(other *Cookie) *Cookie {
	if other == nil {
		return c
	}
	for _, p := range other.pairs {
		c.Set(p.name, p.value)
	}
	return c
}

// Len returns the number of names.
func (c *Cookie) Len() int {
	return len(c.pairs)
}

// Names returns the names in insertion order.
func (c *Cookie) Names() []string {
	names := make([]string, len(c.pairs))
	for i, p := range c.pairs {
		names[i] = p.name
	}
	return names
}

// String serializes the cookie as "name=value; name=value". Values are
// written as stored, without quoting.
func (c *Cookie) String() string {
	var b strings.Builder
	for i, p := range c.pairs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}
