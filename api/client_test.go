package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/sjson"
)

func chatServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestChatReturnsReplyText(t *testing.T) {
	var gotBody map[string]string
	client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("request = %s %s, want POST /api/chat", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}

		// Build the reply the way the production service does, field by field.
		payload := []byte(`{}`)
		payload, _ = sjson.SetBytes(payload, "response", "Lean meats, legumes, eggs.")
		payload, _ = sjson.SetBytes(payload, "sources", []string{"nutrition-basics.pdf"})
		payload, _ = sjson.SetBytes(payload, "relevant_chunks", 3)
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	})

	reply, err := client.Chat(context.Background(), "What are good sources of protein?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if gotBody["message"] != "What are good sources of protein?" {
		t.Fatalf("request message = %q, want the submitted text", gotBody["message"])
	}
	if reply.Response != "Lean meats, legumes, eggs." {
		t.Fatalf("Chat().Response = %q, want %q", reply.Response, "Lean meats, legumes, eggs.")
	}
	if len(reply.Sources) != 1 || reply.Sources[0] != "nutrition-basics.pdf" {
		t.Fatalf("Chat().Sources = %v, want [nutrition-basics.pdf]", reply.Sources)
	}
	if reply.Chunks != 3 {
		t.Fatalf("Chat().Chunks = %d, want 3", reply.Chunks)
	}
}

func TestChatToleratesMinimalEnvelope(t *testing.T) {
	client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "Drink more water."}`))
	})

	reply, err := client.Chat(context.Background(), "hydration tips")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Response != "Drink more water." {
		t.Fatalf("Chat().Response = %q, want %q", reply.Response, "Drink more water.")
	}
	if len(reply.Sources) != 0 {
		t.Fatalf("Chat().Sources = %v, want empty", reply.Sources)
	}
}

func TestChatMissingReplyFieldIsErrNoReply(t *testing.T) {
	for name, body := range map[string]string{
		"empty object":     `{}`,
		"non-string reply": `{"response": 42}`,
		"unrelated fields": `{"sources": ["a.pdf"]}`,
		"not JSON at all":  `<html>gateway error</html>`,
	} {
		client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		_, err := client.Chat(context.Background(), "question")
		if !errors.Is(err, ErrNoReply) {
			t.Errorf("%s: Chat() error = %v, want ErrNoReply", name, err)
		}
	}
}

func TestChatNonSuccessStatusIsTransportError(t *testing.T) {
	client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "Claude API error"}`))
	})

	_, err := client.Chat(context.Background(), "question")
	if err == nil {
		t.Fatalf("Chat() error = nil, want non-nil for HTTP 500")
	}
	if errors.Is(err, ErrNoReply) {
		t.Fatalf("Chat() error = ErrNoReply, want transport error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "Claude API error") {
		t.Fatalf("Chat() error = %q, want detail included", err)
	}
}

func TestChatNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL)
	srv.Close()

	_, err := client.Chat(context.Background(), "question")
	if err == nil {
		t.Fatalf("Chat() error = nil, want non-nil when service is unreachable")
	}
}

func TestHealthDecodesStatus(t *testing.T) {
	client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/health" {
			t.Errorf("request = %s %s, want GET /api/health", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status": "healthy", "claude": true, "message": "All services working!"}`))
	})

	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status.Status != "healthy" || !status.Claude {
		t.Fatalf("Health() = %+v, want healthy with claude=true", status)
	}
	if !strings.Contains(status.Summary(), "model connection ok") {
		t.Fatalf("Summary() = %q, want model connectivity reported", status.Summary())
	}
}

func TestHealthSummaryReportsUnavailableModel(t *testing.T) {
	s := &HealthStatus{Status: "healthy", Claude: false, Message: "check API key"}
	got := s.Summary()
	if !strings.Contains(got, "model connection unavailable") {
		t.Fatalf("Summary() = %q, want unavailable model reported", got)
	}
	if !strings.Contains(got, "check API key") {
		t.Fatalf("Summary() = %q, want service message included", got)
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meal-plan.txt")
	if err := os.WriteFile(path, []byte("eat your greens"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	client := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Errorf("path = %s, want /api/upload", r.URL.Path)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		if header.Filename != "meal-plan.txt" {
			t.Errorf("uploaded filename = %q, want meal-plan.txt", header.Filename)
		}
		w.Write([]byte(`{"filename": "meal-plan.txt", "chunks_processed": 1, "status": "success"}`))
	})

	result, err := client.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if result.ChunksProcessed != 1 || result.Status != "success" {
		t.Fatalf("Upload() = %+v, want 1 chunk with success status", result)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	client := NewClient("http://localhost:1")
	_, err := client.Upload(context.Background(), "recipes.csv")
	if err == nil {
		t.Fatalf("Upload(.csv) error = nil, want unsupported file type error")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("Upload(.csv) error = %q, want unsupported file type error", err)
	}
}
