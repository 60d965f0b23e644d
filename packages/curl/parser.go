// Package curl reads curl command lines into hitsend transactions.
package curl

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/hitsend/packages/http"
)

// Kind is the sender a command maps to.
type Kind int

const (
	KindGet Kind = iota
	KindPost
	KindFilePost
)

func (k Kind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindFilePost:
		return "upload"
	default:
		return "get"
	}
}

// Command is a parsed curl invocation.
type Command struct {
	Method   string   // from -X; empty means inferred
	URL      string
	Headers  []string // "Name: value", in order
	Cookies  string
	Data     []string // -d values, joined with '&' when sent
	DataFile string   // -d @path
	Forms    []http.Param
	User     string // -u user:password
	Get      bool   // -G
	Head     bool   // -I
	Ignored  []string
}

// flags taking a value that are accepted but have no effect here
var ignoredWithValue = map[string]bool{
	"-o": true, "--output": true, "-m": true, "--max-time": true,
	"--connect-timeout": true, "-w": true, "--write-out": true,
	"--retry": true, "-x": true, "--proxy": true, "--cacert": true,
	"-E": true, "--cert": true, "--key": true, "-c": true, "--cookie-jar": true,
}

// Parse tokenizes cmdline with shell quoting rules and parses the result.
// A leading "curl" word is optional.
func Parse(cmdline string) (*Command, error) {
	tokens, err := tokenize(cmdline)
	if err != nil {
		return nil, err
	}
	return ParseArgs(tokens)
}

// ParseArgs parses already split arguments.
func ParseArgs(tokens []string) (*Command, error) {
	if len(tokens) > 0 && tokens[0] == "curl" {
		tokens = tokens[1:]
	}

	c := &Command{}
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		name, inline, hasInline := splitFlag(token)
		value := func() (string, error) {
			if hasInline {
				return inline, nil
			}
			if i+1 >= len(tokens) {
				return "", fmt.Errorf("missing value for %s", name)
			}
			i++
			return tokens[i], nil
		}

		switch name {
		case "-X", "--request":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.Method = strings.ToUpper(v)

		case "-H", "--header":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.Headers = append(c.Headers, v)

		case "-A", "--user-agent":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.Headers = append(c.Headers, "User-Agent: "+v)

		case "-e", "--referer":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.Headers = append(c.Headers, "Referer: "+v)

		case "-b", "--cookie":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if c.Cookies != "" {
				v = c.Cookies + "; " + v
			}
			c.Cookies = v

		case "-u", "--user":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.User = v

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value()
			if err != nil {
				return nil, err
			}
			if path, ok := strings.CutPrefix(v, "@"); ok && name != "--data-raw" {
				if c.DataFile != "" {
					return nil, fmt.Errorf("only one @file body is supported")
				}
				c.DataFile = path
				continue
			}
			c.Data = append(c.Data, v)

		case "--data-urlencode":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.Data = append(c.Data, urlEncodeData(v))

		case "-F", "--form":
			v, err := value()
			if err != nil {
				return nil, err
			}
			p, err := ParseFormParam(v)
			if err != nil {
				return nil, err
			}
			c.Forms = append(c.Forms, p)

		case "--url":
			v, err := value()
			if err != nil {
				return nil, err
			}
			c.URL = v

		case "-G", "--get":
			c.Get = true

		case "-I", "--head":
			c.Head = true

		default:
			if !strings.HasPrefix(token, "-") {
				if c.URL == "" {
					c.URL = token
				} else {
					c.Ignored = append(c.Ignored, token)
				}
				continue
			}
			if ignoredWithValue[name] && !hasInline && i+1 < len(tokens) {
				c.Ignored = append(c.Ignored, token+" "+tokens[i+1])
				i++
				continue
			}
			c.Ignored = append(c.Ignored, token)
		}
	}

	if c.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}
	if len(c.Forms) > 0 && (len(c.Data) > 0 || c.DataFile != "") {
		return nil, fmt.Errorf("-F cannot be combined with -d")
	}
	if c.DataFile != "" && len(c.Data) > 0 {
		return nil, fmt.Errorf("an @file body cannot be combined with inline -d data")
	}
	if c.Get && (len(c.Forms) > 0 || c.DataFile != "") {
		return nil, fmt.Errorf("-G only works with inline -d data")
	}
	return c, nil
}

// splitFlag separates "--name=value" and "-Xvalue" forms.
func splitFlag(token string) (name, value string, ok bool) {
	if strings.HasPrefix(token, "--") {
		if n, v, found := strings.Cut(token, "="); found {
			return n, v, true
		}
		return token, "", false
	}
	if len(token) > 2 && token[0] == '-' {
		switch token[1] {
		case 'X', 'H', 'd', 'F', 'b', 'u', 'A', 'e':
			return token[:2], token[2:], true
		}
	}
	return token, "", false
}

func urlEncodeData(v string) string {
	if name, value, ok := strings.Cut(v, "="); ok {
		return name + "=" + url.QueryEscape(value)
	}
	return url.QueryEscape(v)
}

// ParseFormParam reads curl's -F syntax: "name=value" is a field and
// "name=@path" uploads the file at path.
func ParseFormParam(s string) (http.Param, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return http.Param{}, fmt.Errorf("invalid form parameter %q (want name=value or name=@path)", s)
	}
	if path, isFile := strings.CutPrefix(value, "@"); isFile {
		if path == "" {
			return http.Param{}, fmt.Errorf("form parameter %q has an empty file path", name)
		}
		return http.File(name, path), nil
	}
	return http.Field(name, value), nil
}

// Kind reports which sender the command needs.
func (c *Command) Kind() Kind {
	switch {
	case len(c.Forms) > 0:
		return KindFilePost
	case c.Get || c.Head:
		return KindGet
	case len(c.Data) > 0 || c.DataFile != "":
		return KindPost
	default:
		return KindGet
	}
}

// EffectiveMethod is the method curl would use.
func (c *Command) EffectiveMethod() string {
	switch {
	case c.Method != "":
		return c.Method
	case c.Head:
		return "HEAD"
	case c.Kind() == KindGet:
		return "GET"
	default:
		return "POST"
	}
}

// EffectiveURL is URL with -G data appended to the query.
func (c *Command) EffectiveURL() string {
	if !c.Get || len(c.Data) == 0 {
		return c.URL
	}
	sep := "?"
	if strings.Contains(c.URL, "?") {
		sep = "&"
	}
	return c.URL + sep + c.Body()
}

// Body is the inline -d data joined the way curl joins it.
func (c *Command) Body() string {
	return strings.Join(c.Data, "&")
}

// AllHeaders returns Headers plus the Authorization header for -u and the
// form Content-Type curl adds for -d, unless already present.
func (c *Command) AllHeaders() []string {
	headers := append([]string(nil), c.Headers...)
	if c.User != "" && !c.hasHeader("Authorization") {
		headers = append(headers, "Authorization: Basic "+base64.StdEncoding.EncodeToString([]byte(c.User)))
	}
	if c.Kind() == KindPost && !c.hasHeader("Content-Type") {
		headers = append(headers, "Content-Type: application/x-www-form-urlencoded")
	}
	return headers
}

func (c *Command) hasHeader(name string) bool {
	for _, h := range c.Headers {
		if n, _, ok := strings.Cut(h, ":"); ok && strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

// JoinLines reads a command that may span lines ending in a backslash.
// Blank lines and # comments are skipped.
func JoinLines(r io.Reader) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if cont, ok := strings.CutSuffix(line, "\\"); ok {
			b.WriteString(cont)
			b.WriteByte(' ')
			continue
		}
		b.WriteString(line)
		b.WriteByte(' ')
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// tokenize splits a command into words, honoring single quotes, double
// quotes and backslash escapes.
func tokenize(cmd string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inWord := false
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			if r != '\n' {
				current.WriteRune(r)
				inWord = true
			}
			escaped = false
			continue
		}

		switch {
		case inSingleQuote:
			if r == '\'' {
				inSingleQuote = false
			} else {
				current.WriteRune(r)
			}
		case r == '\\':
			escaped = true
		case inDoubleQuote:
			if r == '"' {
				inDoubleQuote = false
			} else {
				current.WriteRune(r)
			}
		case r == '\'':
			inSingleQuote = true
			inWord = true
		case r == '"':
			inDoubleQuote = true
			inWord = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				tokens = append(tokens, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("unterminated quote in curl command")
	}
	if inWord {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
