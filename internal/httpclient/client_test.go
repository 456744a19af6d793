package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_Defaults(t *testing.T) {
	client := NewFactory(Options{}).CreateDefaultClient()
	assert.Equal(t, 60*time.Second, client.Timeout)
}

func TestCreateClient_OverridesTimeout(t *testing.T) {
	client := NewFactory(Options{Timeout: time.Second}).CreateClient(Options{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, client.Timeout)
}

func TestCreateClient_SetsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewFactory(Options{UserAgent: "eduverse-test"}).CreateDefaultClient()
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "eduverse-test", got)
}

func TestCreateClient_KeepsExplicitUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "caller")

	resp, err := NewFactory(Options{}).CreateDefaultClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "caller", got)
}
