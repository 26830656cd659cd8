package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/archmich514/kiog/pkg/config"
)

const messagingScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCMClient sends push notifications through the FCM HTTP v1 API
type FCMClient struct {
	projectID   string
	baseURL     string
	tokenSource oauth2.TokenSource
	client      *http.Client
}

// NewFCMClient creates an FCM client from a service account credentials
// file. The token source refreshes access tokens as they expire.
func NewFCMClient(cfg *config.FCMConfig) (*FCMClient, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read FCM credentials: %w", err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(data, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FCM credentials: %w", err)
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://fcm.googleapis.com"
	}

	return &FCMClient{
		projectID:   cfg.ProjectID,
		baseURL:     base,
		tokenSource: jwtConfig.TokenSource(context.Background()),
		client:      &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// NewFCMClientWithTokenSource creates an FCM client with an explicit
// token source. Used by tests.
func NewFCMClientWithTokenSource(projectID, baseURL string, ts oauth2.TokenSource) *FCMClient {
	return &FCMClient{
		projectID:   projectID,
		baseURL:     baseURL,
		tokenSource: ts,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers one notification to one device token. Transient FCM
// failures (5xx) are retried with exponential backoff; 4xx responses
// such as an unregistered token fail immediately.
func (f *FCMClient) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	reqBody := sendRequest{
		Message: fcmMessage{
			Token:        token,
			Notification: fcmNotification{Title: title, Body: body},
			Data:         data,
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/messages:send", f.baseURL, f.projectID)

	operation := func() error {
		tok, err := f.tokenSource.Token()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to obtain access token: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		tok.SetAuthHeader(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode < 400:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("fcm returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("fcm returned status %d", resp.StatusCode))
		}
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, bo)
}
