package aiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"timebridge_backend/internal/models"
)

// Index operations mirror the post lifecycle.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Endpoint описывает один поисковый индекс: адреса операций и метод
// обновления (часть индексов принимает update только как PUT).
type Endpoint struct {
	Name         string
	InsertURL    string
	UpdateURL    string
	DeleteURL    string
	UpdateMethod string // POST (default) or PUT
}

// IndexRequest is one change announced to every index.
type IndexRequest struct {
	Op       string
	Kind     models.PostKind
	PostID   string
	GenderID int
	Image    []byte // nil for delete
}

// Failure ties a notification error to the endpoint that produced it.
type Failure struct {
	Endpoint string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("index %s: %v", f.Endpoint, f.Err)
}

// IndexClient рассылает изменения объявлений по всем настроенным индексам.
// Ошибка одного индекса не прерывает рассылку по остальным.
type IndexClient struct {
	httpClient *http.Client
	endpoints  []Endpoint
}

func NewIndexClient(endpoints []Endpoint, timeout time.Duration) *IndexClient {
	return &IndexClient{
		httpClient: newHTTPClient(timeout),
		endpoints:  endpoints,
	}
}

func (c *IndexClient) Endpoints() []Endpoint {
	return c.endpoints
}

// Notify announces the change to every endpoint and returns the failures.
// An empty slice means all indexes accepted the change.
func (c *IndexClient) Notify(ctx context.Context, req IndexRequest) []Failure {
	var failures []Failure
	for _, endpoint := range c.endpoints {
		if err := c.notifyOne(ctx, endpoint, req); err != nil {
			failures = append(failures, Failure{Endpoint: endpoint.Name, Err: err})
		}
	}
	return failures
}

func (c *IndexClient) notifyOne(ctx context.Context, endpoint Endpoint, req IndexRequest) error {
	switch req.Op {
	case OpInsert:
		return c.send(ctx, http.MethodPost, endpoint.InsertURL, req, true)
	case OpUpdate:
		method := http.MethodPost
		if endpoint.UpdateMethod == http.MethodPut {
			method = http.MethodPut
		}
		return c.send(ctx, method, endpoint.UpdateURL, req, true)
	case OpDelete:
		return c.send(ctx, http.MethodPost, endpoint.DeleteURL, req, false)
	default:
		return fmt.Errorf("unknown index operation: %s", req.Op)
	}
}

// send posts the post's identity fields, with the photo attached for
// insert/update. Delete carries fields only.
func (c *IndexClient) send(ctx context.Context, method, target string, req IndexRequest, withImage bool) error {
	var body io.Reader
	contentType := ""

	if withImage {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		if err := writeIndexFields(writer, req); err != nil {
			return err
		}
		part, err := writer.CreateFormFile("img", req.PostID+".png")
		if err != nil {
			return fmt.Errorf("failed to build index request: %w", err)
		}
		if _, err := part.Write(req.Image); err != nil {
			return fmt.Errorf("failed to build index request: %w", err)
		}
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to build index request: %w", err)
		}
		body = &buf
		contentType = writer.FormDataContentType()
	} else {
		form := url.Values{}
		form.Set("missing_id", req.PostID)
		form.Set("type", strconv.Itoa(int(req.Kind)))
		form.Set("gender_id", strconv.Itoa(req.GenderID))
		body = bytes.NewBufferString(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build index request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("index unreachable: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, "index service")
}

func writeIndexFields(writer *multipart.Writer, req IndexRequest) error {
	fields := map[string]string{
		"missing_id": req.PostID,
		"type":       strconv.Itoa(int(req.Kind)),
		"gender_id":  strconv.Itoa(req.GenderID),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to build index request: %w", err)
		}
	}
	return nil
}
