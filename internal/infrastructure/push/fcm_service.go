package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ================================================
// FCM PUSH SERVICE (for production)
// ================================================

const fcmSendEndpoint = "https://fcm.googleapis.com/fcm/send"

type FCMPushService struct {
	serverKey  string
	endpoint   string
	httpClient *http.Client
}

func NewFCMPushService(serverKey string) *FCMPushService {
	return &FCMPushService{
		serverKey: serverKey,
		endpoint:  fcmSendEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type fcmMessage struct {
	To           string                 `json:"to"`
	Notification fcmNotification        `json:"notification"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Priority     string                 `json:"priority"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// SendPush implements the Provider interface
func (s *FCMPushService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]interface{}) (messageID string, err error) {
	msg := fcmMessage{
		To: deviceToken,
		Notification: fcmNotification{
			Title: title,
			Body:  body,
			Sound: "default",
		},
		Data:     data,
		Priority: "high",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal FCM message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create FCM request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send FCM request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read FCM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("FCM returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var fcmResp fcmResponse
	if err := json.Unmarshal(respBody, &fcmResp); err != nil {
		return "", fmt.Errorf("failed to decode FCM response: %w", err)
	}

	if fcmResp.Failure > 0 || len(fcmResp.Results) == 0 {
		reason := "unknown"
		if len(fcmResp.Results) > 0 && fcmResp.Results[0].Error != "" {
			reason = fcmResp.Results[0].Error
		}
		return "", fmt.Errorf("FCM delivery failed: %s", reason)
	}

	messageID = fcmResp.Results[0].MessageID
	log.Debug().
		Str("message_id", messageID).
		Msg("Push notification delivered via FCM")

	return messageID, nil
}
