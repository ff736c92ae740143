package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cronos/types"
)

func TestImportAndCheck(t *testing.T) {
	var gotCheck map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/articles/import":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["url"] == "http://localhost/x" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"blocked host"}`))
				return
			}
			_, _ = w.Write([]byte(`{"sourceUrl":"https://a.example/1","title":"Uno","excerpt":"","imageUrl":"","contentText":"texto"}`))
		case "/api/deduplication/check":
			_ = json.NewDecoder(r.Body).Decode(&gotCheck)
			_, _ = w.Write([]byte(`{"isDuplicate":true,"matchingId":"p1","similarityScore":0.9,"checkedAt":"2024-05-01T00:00:00Z"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	res, err := c.Import(ctx, "https://a.example/1")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Title != "Uno" || res.ContentText != "texto" {
		t.Fatalf("Import = %+v", res)
	}

	dup, err := c.CheckDuplicate(ctx, res)
	if err != nil {
		t.Fatalf("CheckDuplicate: %v", err)
	}
	if !dup.IsDuplicate || dup.MatchingID != "p1" {
		t.Fatalf("CheckDuplicate = %+v", dup)
	}
	if gotCheck["url"] != "https://a.example/1" || gotCheck["contentText"] != "texto" {
		t.Fatalf("check payload = %v", gotCheck)
	}

	_, err = c.Import(ctx, "http://localhost/x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "blocked host" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestSaveDraftAndFeeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/articles":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"abc","slug":"uno","title":"Uno","status":"draft"}`))
		case r.URL.Path == "/api/feeds/refresh":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"status":"refresh started"}`))
		case r.URL.Path == "/api/feeds/status":
			_, _ = w.Write([]byte(`{"state":"importing","running":true,"logs":[{"timestamp":"2024-05-01T00:00:00Z","message":"Fetched 3 item(s) from uno"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	a, err := c.SaveDraft(ctx, &types.ImportResult{Title: "Uno"})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if a.ID != "abc" || a.Status != types.StatusDraft {
		t.Fatalf("SaveDraft = %+v", a)
	}

	if err := c.RefreshFeeds(ctx); err != nil {
		t.Fatalf("RefreshFeeds: %v", err)
	}
	status, err := c.FeedStatus(ctx)
	if err != nil {
		t.Fatalf("FeedStatus: %v", err)
	}
	if !status.Running || len(status.Logs) != 1 {
		t.Fatalf("FeedStatus = %+v", status)
	}
}
