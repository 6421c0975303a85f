package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func TestNew(t *testing.T) {
	_, err := New("/relative")
	assert.Error(t, err)

	_, err = New("http://")
	assert.Error(t, err)

	c, err := New("http://localhost:8080/axis/services/DuckService")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/axis/services/DuckService", c.URL)
}

func TestExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ContentType, r.Header.Get("Content-Type"))
		assert.Equal(t, `"urn:Disco.List"`, r.Header.Get("SOAPAction"))
		assert.Equal(t, "yes", r.Header.Get("X-Trace"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "donald", user)
		assert.Equal(t, "duck", pass)

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "<request/>", string(body))

		w.Write([]byte("<reply/>"))
	}))

	defer server.Close()

	c, err := New(server.URL,
		WithBasicAuth("donald", "duck"),
		WithHeaders(map[string]string{"X-Trace": "yes"}),
		WithTimeout(5*time.Second),
	)

	require.NoError(t, err)

	reply, err := c.Execute(context.Background(), "urn:Disco.List", []byte("<request/>"))

	require.NoError(t, err)
	assert.Equal(t, "<reply/>", string(reply))
}

func TestExecuteToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-source", r.Header.Get("Authorization"))
		w.Write([]byte("<reply/>"))
	}))

	defer server.Close()

	c, err := New(server.URL, WithBearer("static"), WithToken(staticToken("from-source")))
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "", nil)
	require.NoError(t, err)
}

func TestExecuteFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<fault/>"))
	}))

	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	reply, err := c.Execute(context.Background(), "", nil)

	require.NoError(t, err)
	assert.Equal(t, "<fault/>", string(reply))
}

func TestExecuteStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))

	defer server.Close()

	c, err := New(server.URL)
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "", nil)

	var status *StatusError
	require.True(t, errors.As(err, &status))

	assert.Equal(t, http.StatusForbidden, status.StatusCode)
	assert.Contains(t, string(status.Body), "denied")
}

func TestExecuteConfirm(t *testing.T) {
	var called bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	defer server.Close()

	declined := errors.New("declined")

	c, err := New(server.URL, WithConfirm(func(url, action string, body []byte) error {
		assert.Equal(t, "urn:x", action)
		assert.Equal(t, "<request/>", string(body))

		return declined
	}))

	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "urn:x", []byte("<request/>"))

	assert.ErrorIs(t, err, declined)
	assert.False(t, called)
}
