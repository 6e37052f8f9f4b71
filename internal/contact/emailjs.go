package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEmailJSEndpoint is the public EmailJS REST host.
const DefaultEmailJSEndpoint = "https://api.emailjs.com"

const emailJSSendPath = "/api/v1.0/email/send"

// EmailJSConfig holds the account identifiers. ServiceID, TemplateID and
// PublicKey are required; PrivateKey is sent as the access token when set.
type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Endpoint   string
	Timeout    time.Duration
}

// EmailJS sends messages through the EmailJS REST API.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
}

// NewEmailJS builds a sender. A nil client uses a dedicated http.Client with
// cfg.Timeout.
func NewEmailJS(cfg EmailJSConfig, client *http.Client) *EmailJS {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &EmailJS{cfg: cfg, client: client}
}

// Check reports which required identifiers are missing.
func (e *EmailJS) Check() error {
	var missing []string
	if e.cfg.ServiceID == "" {
		missing = append(missing, "service id")
	}
	if e.cfg.TemplateID == "" {
		missing = append(missing, "template id")
	}
	if e.cfg.PublicKey == "" {
		missing = append(missing, "public key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: emailjs %s not set", ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts m to EmailJS. Any non-2xx answer is a transport error carrying
// the start of the response body.
func (e *EmailJS) Send(ctx context.Context, m Message) error {
	if err := e.Check(); err != nil {
		return err
	}
	payload, err := json.Marshal(emailJSRequest{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"name":          m.Name,
			"email":         m.Email,
			"message":       m.Body,
			"reply_to":      m.Email,
			"submission_id": m.ID,
			"submitted_at":  m.Submitted.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("encode emailjs request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(e.cfg.Endpoint, "/")+emailJSSendPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: emailjs responded %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
