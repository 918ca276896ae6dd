package readwise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListRecentFollowsCursor(t *testing.T) {
	var requests []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Token secret", r.Header.Get("Authorization"))
		require.Equal(t, "new", r.URL.Query().Get("location"))
		require.Equal(t, "true", r.URL.Query().Get("withHtmlContent"))
		require.NotEmpty(t, r.URL.Query().Get("updatedAfter"))

		cursor := r.URL.Query().Get("pageCursor")
		requests = append(requests, cursor)

		switch cursor {
		case "":
			json.NewEncoder(w).Encode(listResponse{
				Results:        []Document{{ID: "1", Title: "first"}},
				NextPageCursor: "page-2",
			})
		case "page-2":
			json.NewEncoder(w).Encode(listResponse{
				Results: []Document{{ID: "2", Title: "second"}},
			})
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer ts.Close()

	client := NewClient("secret")
	client.baseURL = ts.URL
	client.http = ts.Client()

	docs, err := client.ListRecent(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "first", docs[0].Title)
	require.Equal(t, "second", docs[1].Title)
	require.Equal(t, []string{"", "page-2"}, requests)
}

func TestListRecentUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient("secret")
	client.baseURL = ts.URL
	client.http = ts.Client()

	_, err := client.ListRecent(context.Background(), time.Now())
	require.ErrorContains(t, err, "status")
}

func TestDocumentContentFallsBackToSummary(t *testing.T) {
	doc := Document{HTMLContent: "<p>full text</p>", Summary: "short"}
	require.Equal(t, "<p>full text</p>", doc.Content())

	doc.HTMLContent = ""
	require.Equal(t, "short", doc.Content())
}
