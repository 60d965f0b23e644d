package http

import (
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/hitsend/packages/cookie"
	"github.com/stretchr/testify/assert"
)

func TestRequest_Builders(t *testing.T) {
	body := strings.NewReader("x")
	c := cookie.Parse("a=1")

	req := NewRequest("PATCH", "http://example.com").
		SetHeader("X-One", "1").
		SetBody(body).
		SetCookies(c).
		AddField("name", "bob").
		AddFile("doc", "/tmp/doc.txt").
		AddFileReader("blob", "blob.bin", body)

	assert.Equal(t, "PATCH", req.Method)
	assert.Equal(t, "1", req.Headers["X-One"])
	assert.Same(t, c, req.Cookies)
	assert.Equal(t, body, req.Body)

	assert.Equal(t, []ParamKind{ParamField, ParamFile, ParamReader},
		[]ParamKind{req.Params[0].Kind, req.Params[1].Kind, req.Params[2].Kind})
	assert.Equal(t, "bob", req.Params[0].Value)
	assert.Equal(t, "/tmp/doc.txt", req.Params[1].Path)
	assert.Equal(t, "blob.bin", req.Params[2].Filename)
}

func TestRequest_SetHeaderNilMap(t *testing.T) {
	req := &Request{}
	req.SetHeader("A", "b")
	assert.Equal(t, "b", req.Headers["A"])
}

func TestRequest_Header(t *testing.T) {
	req := NewRequest("GET", "http://example.com").SetHeader("content-type", "text/plain")

	value, key, ok := req.Header("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", value)
	assert.Equal(t, "content-type", key)

	_, _, ok = req.Header("Accept")
	assert.False(t, ok)
}

func TestParamKind_String(t *testing.T) {
	assert.Equal(t, "field", ParamField.String())
	assert.Equal(t, "file", ParamFile.String())
	assert.Equal(t, "reader", ParamReader.String())
	assert.Equal(t, "unknown", ParamKind(42).String())
}
