package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second)
	body, err := c.Fetch(server.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "ok")
	assert.Equal(t, "test-agent", gotUA)
}

func TestClientFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient("test-agent", 5*time.Second)
	_, err := c.Fetch(server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
