// Package mail hands fully-rendered messages to the external send-email
// function. The caller never retries; a failed send is reported back and
// the surrounding business operation proceeds.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one fully-rendered email.
type Message struct {
	To      string   `json:"to"`
	CC      []string `json:"cc,omitempty"`
	From    string   `json:"from,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Result is the outcome for a single recipient.
type Result struct {
	To  string `json:"to"`
	OK  bool   `json:"ok"`
	Err string `json:"error,omitempty"`
}

// Report aggregates a multi-recipient send. Partial failure is expected
// and reported per recipient rather than all-or-nothing.
type Report struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Results []Result `json:"results"`
}

// Dispatcher sends rendered messages.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// SendAll delivers one message per recipient and collects per-recipient
// results.
func SendAll(ctx context.Context, d Dispatcher, base Message, recipients []string) Report {
	report := Report{Results: make([]Result, 0, len(recipients))}
	for _, to := range recipients {
		msg := base
		msg.To = to
		if err := d.Send(ctx, msg); err != nil {
			report.Failed++
			report.Results = append(report.Results, Result{To: to, Err: err.Error()})
			continue
		}
		report.Sent++
		report.Results = append(report.Results, Result{To: to, OK: true})
	}
	return report
}

// ErrDisabled is returned when no mail endpoint is configured.
var ErrDisabled = errors.New("mail dispatch not configured")

// HTTPDispatcher posts messages to the configured serverless function.
type HTTPDispatcher struct {
	URL    string
	APIKey string
	From   string
	Client *http.Client
}

func NewHTTPDispatcher(url, apiKey, from string, timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		URL:    url,
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDispatcher) Send(ctx context.Context, msg Message) error {
	if d.URL == "" {
		return ErrDisabled
	}
	if msg.From == "" {
		msg.From = d.From
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.APIKey)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail function returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
