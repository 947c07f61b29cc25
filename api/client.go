// Package api is the HTTP client for the remote nutrition chat service.
//
// The service is an opaque collaborator: one JSON request/response exchange
// per chat turn, plus a health endpoint and a document upload endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/evanmaki/nutrichat/logger"
)

const healthTimeout = 5 * time.Second

// ErrNoReply means the service answered 2xx but the body carried no usable
// reply text. Callers substitute the fixed fallback instead of failing.
var ErrNoReply = errors.New("chat response missing reply text")

// Client talks to one nutrition service instance.
type Client struct {
	baseURL string
	// Chat requests carry no client timeout; the transport default governs
	// and the user waits or re-sends. Health pings use a short deadline so
	// a dead service is reported quickly.
	http       *http.Client
	healthHTTP *http.Client
}

// NewClient creates a client for the given base URL (scheme://host[:port],
// no trailing slash required).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:       &http.Client{},
		healthHTTP: &http.Client{Timeout: healthTimeout},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHealthTimeout overrides the health probe deadline.
func (c *Client) SetHealthTimeout(d time.Duration) {
	if d > 0 {
		c.healthHTTP.Timeout = d
	}
}

// ChatReply is the parsed body of a successful /api/chat response.
type ChatReply struct {
	Response string   // the assistant's answer
	Sources  []string // document names backing the answer, when provided
	Model    string   // model identifier, when provided
	Chunks   int      // retrieved chunk count, when provided
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat sends one user message and returns the service reply.
//
// Backend iterations disagree on the reply envelope (sources, model and
// relevant_chunks come and go), so the body is parsed field by field with
// gjson instead of a fixed struct. A 2xx body without a string "response"
// field returns ErrNoReply; that also covers non-JSON bodies.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// FastAPI-style errors carry a "detail" field worth logging.
		if detail := gjson.GetBytes(raw, "detail"); detail.Exists() {
			return nil, fmt.Errorf("chat request returned %d: %s", resp.StatusCode, detail.String())
		}
		return nil, fmt.Errorf("chat request returned %d", resp.StatusCode)
	}

	response := gjson.GetBytes(raw, "response")
	if !response.Exists() || response.Type != gjson.String {
		logger.Warn("chat response missing reply field", "status", resp.StatusCode, "bytes", len(raw))
		return nil, ErrNoReply
	}

	reply := &ChatReply{
		Response: response.String(),
		Model:    gjson.GetBytes(raw, "model").String(),
		Chunks:   int(gjson.GetBytes(raw, "relevant_chunks").Int()),
	}
	for _, s := range gjson.GetBytes(raw, "sources").Array() {
		reply.Sources = append(reply.Sources, s.String())
	}

	logger.Debug("chat reply received",
		"elapsedMs", time.Since(start).Milliseconds(),
		"chars", len(reply.Response),
		"sources", len(reply.Sources),
	)
	return reply, nil
}

// HealthStatus mirrors GET /api/health.
type HealthStatus struct {
	Status  string `json:"status"`
	Claude  bool   `json:"claude"`
	Message string `json:"message,omitempty"`
}

// Summary renders the status as a short human-readable diagnostic.
func (s *HealthStatus) Summary() string {
	model := "model connection unavailable"
	if s.Claude {
		model = "model connection ok"
	}
	out := fmt.Sprintf("Service status: %s (%s)", s.Status, model)
	if s.Message != "" {
		out += "\n" + s.Message
	}
	return out
}

// Health checks service and model connectivity.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.healthHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("health request returned %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &status, nil
}

// UploadResult mirrors POST /api/upload.
type UploadResult struct {
	Filename        string `json:"filename"`
	ChunksProcessed int    `json:"chunks_processed"`
	Status          string `json:"status"`
}

// uploadExts is the service-side whitelist, checked here too so an
// unsupported file fails before the bytes leave the machine.
var uploadExts = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Upload sends a nutrition document for indexing.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	filename := filepath.Base(path)
	if !uploadExts[strings.ToLower(filepath.Ext(filename))] {
		return nil, fmt.Errorf("unsupported file type %q: only PDF, DOCX and TXT are accepted", filepath.Ext(filename))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail := gjson.GetBytes(raw, "detail"); detail.Exists() {
			return nil, fmt.Errorf("upload returned %d: %s", resp.StatusCode, detail.String())
		}
		return nil, fmt.Errorf("upload returned %d", resp.StatusCode)
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	logger.Info("document uploaded", "filename", result.Filename, "chunks", result.ChunksProcessed)
	return &result, nil
}
