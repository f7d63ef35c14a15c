package duckduckgo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwehrmann/voxnote/pkg/lookup"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "abstract text capped at two sentences",
			body: `{"AbstractText": "Google is a technology company. It was founded in 1998. It is based in Mountain View."}`,
			want: "Google: Google is a technology company. It was founded in 1998",
		},
		{
			name: "falls back to Abstract field",
			body: `{"Abstract": "Google is a technology company."}`,
			want: "Google: Google is a technology company.",
		},
		{
			name:    "empty answer is no result",
			body:    `{"AbstractText": "", "Abstract": ""}`,
			wantErr: lookup.ErrNoResult,
		},
		{
			name:    "missing fields fail closed",
			body:    `{"Heading": "Google"}`,
			wantErr: lookup.ErrNoResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("q") != "Google" {
					t.Errorf("q = %q", q.Get("q"))
				}
				if q.Get("no_html") != "1" || q.Get("skip_disambig") != "1" {
					t.Errorf("missing instant-answer query flags: %v", q)
				}
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := New(WithBaseURL(srv.URL))
			got, err := s.Lookup(context.Background(), "Google")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got != tt.want {
				t.Errorf("passage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(WithBaseURL(srv.URL))
	_, err := s.Lookup(context.Background(), "Google")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, lookup.ErrNoResult) {
		t.Error("server errors must be distinguishable from no-result")
	}
}
