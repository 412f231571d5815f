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
)

// AgingClient обращается к сервису возрастной прогрессии: отправляет
// фотографию и пару возрастов, получает состаренное изображение.
type AgingClient struct {
	httpClient *http.Client
	agingURL   string
}

func NewAgingClient(agingURL string, timeout time.Duration) *AgingClient {
	return &AgingClient{
		httpClient: newHTTPClient(timeout),
		agingURL:   agingURL,
	}
}

// Age submits the photo and returns the age-progressed PNG bytes.
func (c *AgingClient) Age(ctx context.Context, image io.Reader, sourceAge, targetAge int) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// Сервис прогрессии читает файл из части "file" (индексы - из "img")
	part, err := writer.CreateFormFile("file", "origin.png")
	if err != nil {
		return nil, fmt.Errorf("failed to build aging request: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to build aging request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build aging request: %w", err)
	}

	params := url.Values{}
	params.Set("source_age", strconv.Itoa(sourceAge))
	params.Set("target_age", strconv.Itoa(targetAge))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.agingURL+"?"+params.Encode(), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build aging request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aging service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "aging service"); err != nil {
		return nil, err
	}

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read aged image: %w", err)
	}
	return result, nil
}
