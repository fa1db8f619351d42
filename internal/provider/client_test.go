package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAskSendsFormAndDecodesAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "How do I zoom?", r.PostForm.Get(FieldPrompt))
		require.Equal(t, "large", r.PostForm.Get("font"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"context":"Text: How do I zoom?","answer":"Step 1: Pinch.","history_html":"<div class='chat-row user'></div>"}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Ask(context.Background(), Request{Fields: url.Values{
		FieldPrompt: {"How do I zoom?"},
		"font":      {"large"},
	}})
	require.NoError(t, err)
	require.Equal(t, "Step 1: Pinch.", resp.Answer)
	require.Equal(t, "Text: How do I zoom?", resp.Context)
	require.Contains(t, resp.HistoryHTML, "chat-row")
}

func TestAskSendsMultipartWithDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "what is this?", r.FormValue(FieldPrompt))
		file, header, err := r.FormFile(FieldDocument)
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		require.Equal(t, "bill.pdf", header.Filename)
		require.Equal(t, "%PDF-1.4", string(data))
		io.WriteString(w, `{"answer":"Step 1: Read it.","context":"","history_html":""}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Ask(context.Background(), Request{
		Fields:   url.Values{FieldPrompt: {"what is this?"}},
		Document: &Attachment{Name: "/tmp/bill.pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
}

func TestAskReportsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"An error occurred: model offline"}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Ask(context.Background(), Request{Fields: url.Values{FieldPrompt: {"hi"}}})

	var perr *ProviderError
	require.True(t, errors.As(err, &perr), "expected ProviderError, got %v", err)
	require.Equal(t, "An error occurred: model offline", perr.Message)
	require.Equal(t, http.StatusInternalServerError, perr.Status)
	require.False(t, errors.Is(err, ErrTransport))
}

func TestAskProviderErrorWithSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"quota exceeded"}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Ask(context.Background(), Request{Fields: url.Values{FieldPrompt: {"hi"}}})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "quota exceeded", perr.Error())
}

func TestAskTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"html body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html>bad gateway</html>")
		}},
		{"status without error field", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{}`)
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL, Timeout: 100 * time.Millisecond})
			require.NoError(t, err)
			_, err = client.Ask(context.Background(), Request{Fields: url.Values{FieldPrompt: {"hi"}}})
			require.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestDiscardKeepsSessionCookie(t *testing.T) {
	var resetCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.SetCookie(w, &http.Cookie{Name: "seniorhelp_session", Value: "abc", Path: "/"})
			io.WriteString(w, `{"answer":"Step 1: Hi.","context":"","history_html":""}`)
		case "/reset":
			require.Equal(t, http.MethodPost, r.Method)
			if c, err := r.Cookie("seniorhelp_session"); err == nil {
				resetCookie = c.Value
			}
			io.WriteString(w, `{"success":true}`)
		}
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.Ask(context.Background(), Request{Fields: url.Values{FieldPrompt: {"hi"}}})
	require.NoError(t, err)
	require.NoError(t, client.Discard(context.Background()))
	require.Equal(t, "abc", resetCookie)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
