package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"responseStatus": 200, "responseData": {"translatedText": "Bonjour le monde"}}`))
	}))
	defer srv.Close()

	tr := NewTranslator(srv.URL)
	assert.Equal(t, "Bonjour le monde", tr.Translate(context.Background(), "Hello world", "en", "fr"))
	assert.Equal(t, "Hello world", gotQuery)

	long := strings.Repeat("a", 600)
	tr.Translate(context.Background(), long, "en", "fr")
	assert.Len(t, gotQuery, 500)
}

func TestTranslateReturnsInputOnFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"http error", "", http.StatusBadGateway},
		{"quota status", `{"responseStatus": 403, "responseData": {"translatedText": "MYMEMORY WARNING"}}`, http.StatusOK},
		{"empty translation", `{"responseStatus": 200, "responseData": {"translatedText": ""}}`, http.StatusOK},
		{"bad json", `{`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			tr := NewTranslator(srv.URL)
			assert.Equal(t, "Hello world", tr.Translate(context.Background(), "Hello world", "en", "fr"))
		})
	}
}

func TestTranslateShortTextSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	assert.Equal(t, "Hi", NewTranslator(srv.URL).Translate(context.Background(), "Hi", "en", "fr"))
	assert.False(t, called)
}
