package http

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_NotFound(t *testing.T) {
	resp, ok := Status(404)

	require.True(t, ok)
	assert.Equal(t, 404, resp.StatusCode)
	assert.NotNil(t, resp.Body)
	assert.Empty(t, resp.Body)
	assert.Empty(t, resp.Headers)
	assert.Equal(t, DefaultMimeType, resp.MimeType)
}

func TestStatus_Unknown(t *testing.T) {
	_, ok := Status(299)
	assert.False(t, ok)
	_, ok = Status(419)
	assert.False(t, ok)
	_, ok = Status(200)
	assert.False(t, ok)
	assert.Equal(t, "OK", StatusText(200))
}

func TestStatus_TemplatesAreFresh(t *testing.T) {
	first, _ := Status(500)
	first.Message(500, "boom")
	first.Headers["X-Leak"] = "yes"

	second, _ := Status(500)
	assert.Empty(t, second.Body)
	assert.Empty(t, second.Headers)
	assert.Equal(t, DefaultMimeType, second.MimeType)
}

func TestStatusCodes(t *testing.T) {
	var want []int
	want = append(want, 100, 101)
	for c := 201; c <= 206; c++ {
		want = append(want, c)
	}
	for c := 300; c <= 305; c++ {
		want = append(want, c)
	}
	want = append(want, 307)
	for c := 400; c <= 418; c++ {
		want = append(want, c)
	}
	want = append(want, 420)
	for c := 500; c <= 505; c++ {
		want = append(want, c)
	}

	assert.Equal(t, want, StatusCodes())
	for _, code := range want {
		resp, ok := Status(code)
		require.True(t, ok, "code %d", code)
		assert.Equal(t, code, resp.StatusCode)
		assert.NotEmpty(t, StatusText(code), "code %d", code)
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Not Found", StatusText(404))
	assert.Equal(t, "I'm a teapot", StatusText(418))
	assert.Equal(t, "Enhance Your Calm", StatusText(420))
	assert.Equal(t, "", StatusText(999))
}

func TestStatus_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, code := range StatusCodes() {
				resp, ok := Status(code)
				if assert.True(t, ok) {
					resp.Message(code, "mine")
				}
			}
		}()
	}
	wg.Wait()

	resp, _ := Status(201)
	assert.Empty(t, resp.Body)
}
