package notification

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNtfyClient_SendPostsToTopic(t *testing.T) {
	var gotPath, gotTitle, gotTags, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewNtfyClient(server.URL, "my-topic")
	err := client.Send(Notification{
		Title:   "idlewatch: idle",
		Message: "no activity for 2m",
		Kind:    KindIdle,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotPath != "/my-topic" {
		t.Errorf("path = %q, want /my-topic", gotPath)
	}
	if gotTitle != "idlewatch: idle" {
		t.Errorf("title header = %q", gotTitle)
	}
	if gotTags != KindIdle {
		t.Errorf("tags header = %q, want %q", gotTags, KindIdle)
	}
	if gotBody != "no activity for 2m" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestNtfyClient_ServerErrorIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewNtfyClient(server.URL, "my-topic")
	if err := client.Send(Notification{Title: "x"}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestNtfyClient_EmptyTopicIsError(t *testing.T) {
	client := NewNtfyClient("https://ntfy.sh", "")
	if err := client.Send(Notification{Title: "x"}); err == nil {
		t.Error("expected error for empty topic")
	}
}
