package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>犬 jpdb</title></head><body><div class="primary-spelling">いぬ</div><div class="part-of-speech"><div>Noun</div></div></body></html>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetcherOptions{UserAgent: "jpdeck-test"})
	doc, err := f.Fetch(context.Background(), srv.URL+"/vocabulary/1/inu")
	require.NoError(t, err)
	require.Equal(t, "jpdeck-test", gotUA)
	require.Equal(t, srv.URL+"/vocabulary/1/inu", doc.URL().String())

	fields, err := ExtractFields(doc)
	require.NoError(t, err)
	require.Equal(t, "犬", fields.Expression)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusNotFound, te.StatusCode)
}

func TestHTTPFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(FetcherOptions{}).Fetch(context.Background(), addr)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Error(t, te.Unwrap())
}
