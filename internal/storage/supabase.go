// Package storage отвечает за хранение сгенерированных изображений:
// удаленный объектный store с retry-политикой и локальный fallback.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAttempts = 2
	defaultBackoff  = 2 * time.Second
)

// Client загружает изображения в Supabase-совместимое объектное
// хранилище. Upload пробует два способа кодирования: endpoint не всегда
// одинаково принимает бинарное тело и multipart в разных деплоях.
type Client struct {
	baseURL string
	apiKey  string
	bucket  string

	attempts int
	backoff  time.Duration
	client   *http.Client
}

func NewClient(baseURL, apiKey, bucket string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		bucket:   bucket,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload кладет объект по ключу и возвращает его URL. Сначала бинарное
// тело до attempts попыток с паузой backoff, затем столько же попыток
// multipart. Ошибка возвращается только когда исчерпаны оба способа,
// с последней причиной внутри.
func (c *Client) Upload(ctx context.Context, data []byte, key string) (string, error) {
	objectURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, key)
	logCtx := logrus.WithField("key", key)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if lastErr = c.uploadBinary(ctx, objectURL, data); lastErr == nil {
			return objectURL, nil
		}
		logCtx.WithError(lastErr).Warnf("Binary upload attempt %d/%d failed", attempt, c.attempts)
		if attempt < c.attempts {
			c.sleep(ctx)
		}
	}

	logCtx.Warn("Binary uploads exhausted, trying multipart")
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if lastErr = c.uploadMultipart(ctx, objectURL, key, data); lastErr == nil {
			return objectURL, nil
		}
		logCtx.WithError(lastErr).Warnf("Multipart upload attempt %d/%d failed", attempt, c.attempts)
		if attempt < c.attempts {
			c.sleep(ctx)
		}
	}

	// исчерпаны оба способа

	return "", fmt.Errorf("upload failed after %d attempts: %w", c.attempts*2, lastErr)
}

func (c *Client) uploadBinary(ctx context.Context, objectURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, objectURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")
	c.setAuth(req)

	return c.do(req)
}

func (c *Client) uploadMultipart(ctx context.Context, objectURL, key string, data []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", key)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, objectURL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(req)

	return c.do(req)
}

// DeletePrefix удаляет все объекты комнаты по префиксу ключа.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) error {
	u := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)

	payload, err := json.Marshal(map[string]interface{}{
		"prefixes": []string{prefix},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	return c.do(req)
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("x-upsert", "true")
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("storage returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func (c *Client) sleep(ctx context.Context) {
	select {
	case <-time.After(c.backoff):
	case <-ctx.Done():
	}
}
