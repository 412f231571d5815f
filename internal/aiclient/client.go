// Package aiclient содержит HTTP-клиенты внешних AI-сервисов: поиск похожих
// лиц, возрастная прогрессия и обновление поисковых индексов. Все клиенты
// работают поверх общего http.Client с таймаутом из конфигурации.
package aiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// Candidate - один результат ранжирования от сервиса похожести.
// Сервисы по-разному именуют поля (missingId/missing_id, score/similarity_score),
// поэтому распаковка принимает оба варианта.
type Candidate struct {
	MissingID string  `json:"missing_id"`
	Score     float64 `json:"score"`
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw struct {
		MissingID      *string  `json:"missingId"`
		MissingIDSnake *string  `json:"missing_id"`
		Score          *float64 `json:"score"`
		SimilarityScr  *float64 `json:"similarity_score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.MissingID != nil:
		c.MissingID = *raw.MissingID
	case raw.MissingIDSnake != nil:
		c.MissingID = *raw.MissingIDSnake
	}
	switch {
	case raw.Score != nil:
		c.Score = *raw.Score
	case raw.SimilarityScr != nil:
		c.Score = *raw.SimilarityScr
	}
	return nil
}

// decodeCandidates разбирает ответ сервиса похожести: {"result": [...]}
func decodeCandidates(body io.Reader) ([]Candidate, error) {
	var envelope struct {
		Result []Candidate `json:"result"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode ranking response: %w", err)
	}
	return envelope.Result, nil
}

func checkStatus(resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s returned status %d: %s", service, resp.StatusCode, string(body))
}
