package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

func newProbeClient(t *testing.T, handler http.HandlerFunc) sheetapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := sheetapi.NewClient(sheetapi.Options{
		URL:        server.URL,
		HTTPClient: server.Client(),
		Logger:     logger.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestRunProbeSuccess(t *testing.T) {
	client := newProbeClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts":[]}`))
	})

	var out bytes.Buffer
	err := runProbe(context.Background(), &out, client, []domain.Operation{domain.OpGetBlogPosts})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✅ GET getBlogPosts")
	assert.Contains(t, out.String(), `"posts": []`)
}

func TestRunProbeReportsFailures(t *testing.T) {
	client := newProbeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"error":"quota exceeded"}`))
			return
		}
		_, _ = w.Write([]byte(`not json`))
	})

	var out bytes.Buffer
	err := runProbe(context.Background(), &out, client, domain.Operations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 of 4")
	assert.Contains(t, out.String(), "application: quota exceeded")
	assert.Contains(t, out.String(), "not json")
}

func TestProbeCommandRejectsUnknownOperation(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"probe", "--url", "https://example.com/exec", "deleteEverything"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "folio dev")
}
