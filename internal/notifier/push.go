package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ExpoConfig holds push delivery settings
type ExpoConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// ExpoSender delivers push notifications through the Expo push HTTP API.
type ExpoSender struct {
	config *ExpoConfig
	client *http.Client
	logger *slog.Logger
}

// NewExpoSender creates a new Expo push sender
func NewExpoSender(config *ExpoConfig, logger *slog.Logger) *ExpoSender {
	return &ExpoSender{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

type expoPushMessage struct {
	To    string `json:"to"`
	Sound string `json:"sound"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers a single push notification
func (s *ExpoSender) Send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(expoPushMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("push service returned %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("Push notification sent",
		slog.String("title", title),
	)

	return nil
}
