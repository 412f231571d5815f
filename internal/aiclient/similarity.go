package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"timebridge_backend/internal/models"
)

// SimilarityClient запрашивает у AI-сервиса ранжирование лиц: по фотографии
// существующего объявления либо по текстовому описанию примет.
type SimilarityClient struct {
	httpClient *http.Client
	rankURL    string
	attrURL    string
}

func NewSimilarityClient(rankURL, attrURL string, timeout time.Duration) *SimilarityClient {
	return &SimilarityClient{
		httpClient: newHTTPClient(timeout),
		rankURL:    rankURL,
		attrURL:    attrURL,
	}
}

// RankByImage returns candidates ranked against the indexed photo of the
// given post. The service searches the index of the opposite kind, so the
// kind sent here is the kind of the QUERY post.
func (c *SimilarityClient) RankByImage(ctx context.Context, kind models.PostKind, genderID int, postID string) ([]Candidate, error) {
	params := url.Values{}
	params.Set("type", strconv.Itoa(int(kind)))
	params.Set("gender", strconv.Itoa(genderID))
	params.Set("missingId", postID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rankURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ranking request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("similarity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "similarity service"); err != nil {
		return nil, err
	}
	return decodeCandidates(resp.Body)
}

// RankByAttributes returns candidates ranked against a free-text description
// of the person. genderID is optional and narrows the search when set.
func (c *SimilarityClient) RankByAttributes(ctx context.Context, attributes string, kind models.PostKind, genderID *int) ([]Candidate, error) {
	payload := map[string]interface{}{
		"attributes": attributes,
		"type":       int(kind),
	}
	if genderID != nil {
		payload["gender"] = *genderID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attribute query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.attrURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build attribute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("similarity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "similarity service"); err != nil {
		return nil, err
	}
	return decodeCandidates(resp.Body)
}
