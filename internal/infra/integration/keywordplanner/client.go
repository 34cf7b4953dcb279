package keywordplanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/northpeak-digital/agency-api/internal/keywords"
)

const (
	DefaultBaseURL   = "https://api.dataforseo.com"
	searchVolumePath = "/v3/keywords_data/google_ads/search_volume/live"
	statusOK         = 20000
)

var ErrMissingCredentials = errors.New("keyword provider credentials are not configured")

type Client struct {
	baseURL  string
	login    string
	password string
	location string
	language string
	http     *http.Client
}

func NewClient(baseURL, login, password, location string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		login:    login,
		password: password,
		location: location,
		language: "en",
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchVolume looks up every keyword in one request.
func (c *Client) SearchVolume(ctx context.Context, kws []string) ([]keywords.Metric, error) {
	if c.login == "" || c.password == "" {
		return nil, ErrMissingCredentials
	}

	body, err := json.Marshal([]searchVolumeTask{{
		Keywords:     kws,
		LocationName: c.location,
		LanguageCode: c.language,
	}})
	if err != nil {
		return nil, fmt.Errorf("marshal search volume request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchVolumePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keyword provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("keyword provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out searchVolumeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode keyword provider response: %w", err)
	}
	if out.StatusCode != statusOK {
		return nil, fmt.Errorf("keyword provider error %d: %s", out.StatusCode, out.StatusMessage)
	}

	var metrics []keywords.Metric
	for _, task := range out.Tasks {
		if task.StatusCode != statusOK {
			return nil, fmt.Errorf("keyword provider task error %d: %s", task.StatusCode, task.StatusMessage)
		}
		for _, r := range task.Result {
			m := keywords.Metric{Keyword: r.Keyword}
			if r.SearchVolume != nil {
				m.Volume = *r.SearchVolume
			}
			if r.CompetitionIndex != nil {
				m.CompetitionIndex = *r.CompetitionIndex
			}
			if r.CPC != nil {
				m.CPC = *r.CPC
			}
			metrics = append(metrics, m)
		}
	}
	return metrics, nil
}
