// Package generation содержит клиентов внешних API генерации
// Pollinations: картинки по промпту и суммаризация текста.
package generation

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Генерация изображения медленная, таймауты длинные
	imageConnectTimeout = 60 * time.Second
	imageReadTimeout    = 120 * time.Second

	// Суммаризация должна отвечать быстро
	textTimeout = 20 * time.Second
)

// ImageClient генерирует изображение одним GET запросом:
// <base>/<urlencoded prompt>?width=1024&height=1024&nologo=true
type ImageClient struct {
	baseURL string
	client  *http.Client
}

func NewImageClient(baseURL string) *ImageClient {
	return &ImageClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: imageReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: imageConnectTimeout}).DialContext,
			},
		},
	}
}

func (c *ImageClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?width=1024&height=1024&nologo=true", c.baseURL, url.PathEscape(prompt))
	logrus.WithField("url", u).Debug("Calling image generation API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image api returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image api returned empty response")
	}
	return data, nil
}

// TextClient сжимает текст через текстовый endpoint Pollinations.
type TextClient struct {
	baseURL string
	client  *http.Client
}

func NewTextClient(baseURL string) *TextClient {
	return &TextClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: textTimeout},
	}
}

func (c *TextClient) Summarize(ctx context.Context, text string, targetWords int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following events in a short, connected paragraph of about %d words: %s",
		targetWords, text,
	)

	u := c.baseURL + "/" + url.PathEscape(prompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("text api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text api returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read summary response: %w", err)
	}
	return string(data), nil
}
