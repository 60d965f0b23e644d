package http

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestEncodeMultipart_WireFormat(t *testing.T) {
	path := writeTempFile(t, "a.bin", []byte("hello"))

	var buf bytes.Buffer
	err := EncodeMultipart(&buf, "BOUNDARY", []Param{
		File("file", path),
		Field("name", "bob"),
	})
	require.NoError(t, err)

	expected := "--BOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"a.bin\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"hello\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"name\"\r\n" +
		"\r\n" +
		"bob\r\n" +
		"--BOUNDARY--\r\n"
	assert.Equal(t, expected, buf.String())
}

func TestEncodeMultipart_ZeroLengthFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", nil)

	var buf bytes.Buffer
	require.NoError(t, EncodeMultipart(&buf, "B", []Param{File("empty", path)}))

	expected := "--B\r\n" +
		"Content-Disposition: form-data; name=\"empty\"; filename=\"empty.txt\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n" +
		"\r\n" +
		"--B--\r\n"
	assert.Equal(t, expected, buf.String())
}

func TestEncodeMultipart_NoParams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeMultipart(&buf, "B", nil))
	assert.Equal(t, "--B--\r\n", buf.String())
}

func TestEncodeMultipart_InvalidBoundary(t *testing.T) {
	err := EncodeMultipart(io.Discard, "bad boundary\x00", nil)
	assert.Error(t, err)
}

func TestEncodeMultipart_ClosesReaders(t *testing.T) {
	first := &trackingReader{Reader: strings.NewReader("one")}
	second := &trackingReader{Reader: strings.NewReader("two")}

	err := EncodeMultipart(io.Discard, "B", []Param{
		FileReader("a", "a.txt", first),
		File("missing", filepath.Join(t.TempDir(), "nope")),
		FileReader("b", "b.txt", second),
	})

	require.Error(t, err)
	assert.True(t, first.closed.Load())
	assert.True(t, second.closed.Load())
}

func TestNewBoundary(t *testing.T) {
	a, b := NewBoundary(), NewBoundary()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "hitsend-"))
	assert.LessOrEqual(t, len(a), 70)
}

type multipartPart struct {
	name        string
	filename    string
	contentType string
	content     []byte
}

func readParts(t *testing.T, r *http.Request) []multipartPart {
	t.Helper()
	mr, err := r.MultipartReader()
	require.NoError(t, err)

	var parts []multipartPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, multipartPart{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			content:     content,
		})
	}
	return parts
}

func TestFilePostSender_Send(t *testing.T) {
	fileContent := []byte{0x00, 0x01, 'h', 'i', 0xff}
	path := writeTempFile(t, "payload.bin", fileContent)

	var parts []multipartPart
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		assert.Equal(t, int64(-1), r.ContentLength)
		parts = readParts(t, r)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req := NewRequest("", server.URL).
		SetHeader("content-type", "text/plain").
		AddFile("file", path).
		AddField("name", "bob")

	resp, err := NewFilePostSender(req).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)
	assert.True(t, strings.HasPrefix(params["boundary"], "hitsend-"))

	require.Len(t, parts, 2)
	assert.Equal(t, "file", parts[0].name)
	assert.Equal(t, "payload.bin", parts[0].filename)
	assert.Equal(t, "application/octet-stream", parts[0].contentType)
	assert.Equal(t, fileContent, parts[0].content)

	assert.Equal(t, "name", parts[1].name)
	assert.Empty(t, parts[1].filename)
	assert.Empty(t, parts[1].contentType)
	assert.Equal(t, "bob", string(parts[1].content))
}

func TestFilePostSender_TerminatingBoundary(t *testing.T) {
	url, captured := newRawServer(t, okReply)

	req := NewRequest(http.MethodPost, url).AddField("name", "bob")
	_, err := NewFilePostSender(req).Send(context.Background())
	require.NoError(t, err)

	raw := string(<-captured)
	idx := strings.Index(raw, "boundary=")
	require.Greater(t, idx, 0)
	boundary := raw[idx+len("boundary=") : idx+len("boundary=")+len(NewBoundary())]

	assert.Contains(t, raw, "Transfer-Encoding: chunked")
	assert.Contains(t, raw, "--"+boundary+"--\r\n")
}

func TestFilePostSender_PathLikeFieldStaysText(t *testing.T) {
	path := writeTempFile(t, "secret.txt", []byte("do not upload"))

	var parts []multipartPart
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
	}))
	defer server.Close()

	req := NewRequest(http.MethodPost, server.URL).AddField("path", path)
	_, err := NewFilePostSender(req).Send(context.Background())
	require.NoError(t, err)

	require.Len(t, parts, 1)
	assert.Empty(t, parts[0].filename)
	assert.Equal(t, path, string(parts[0].content))
}

func TestFilePostSender_ReaderParam(t *testing.T) {
	var parts []multipartPart
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
	}))
	defer server.Close()

	in := &trackingReader{Reader: strings.NewReader("streamed")}
	req := NewRequest(http.MethodPost, server.URL).AddFileReader("upload", "data.txt", in)

	_, err := NewFilePostSender(req).Send(context.Background())
	require.NoError(t, err)

	require.Len(t, parts, 1)
	assert.Equal(t, "data.txt", parts[0].filename)
	assert.Equal(t, "streamed", string(parts[0].content))
	assert.True(t, in.closed.Load())
}

func TestFilePostSender_LargeFile(t *testing.T) {
	content := bytes.Repeat([]byte("abcdefgh"), 5000)
	path := writeTempFile(t, "large.dat", content)

	var parts []multipartPart
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts = readParts(t, r)
	}))
	defer server.Close()

	_, err := NewFilePostSender(NewRequest(http.MethodPost, server.URL).AddFile("f", path)).
		Send(context.Background())
	require.NoError(t, err)

	require.Len(t, parts, 1)
	assert.Equal(t, content, parts[0].content)
}

func TestFilePostSender_MissingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
	}))
	defer server.Close()

	missing := filepath.Join(t.TempDir(), "gone.txt")
	req := NewRequest(http.MethodPost, server.URL).
		AddField("name", "bob").
		AddFile("doc", missing)

	resp, err := NewFilePostSender(req).Send(context.Background())

	assert.Nil(t, resp)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, PhaseWrite, te.Phase)
	assert.Equal(t, server.URL, te.URL)
	assert.Equal(t, "doc", te.Field)
	assert.Equal(t, missing, te.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), `field "doc"`)
	assert.Contains(t, err.Error(), missing)
}
