// Package sheets mirrors order records into a spreadsheet over the Sheets
// REST API, authenticating with a service-account JWT exchanged for a
// bearer token.
package sheets

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenURL     = "https://oauth2.googleapis.com/token"
	sheetsAPI    = "https://sheets.googleapis.com/v4/spreadsheets"
	sheetsScope  = "https://www.googleapis.com/auth/spreadsheets"
	assertionTTL = time.Hour
)

// ErrDisabled is returned when no service account is configured.
var ErrDisabled = errors.New("spreadsheet sync not configured")

// Row is one order projected onto a sheet row. ID lands in column A and is
// the upsert match key.
type Row struct {
	ID       string
	Number   string
	Client   string
	Status   string
	Total    string
	Currency string
	Updated  time.Time
}

func (r Row) values() []any {
	return []any{r.ID, r.Number, r.Client, r.Status, r.Total, r.Currency, r.Updated.UTC().Format(time.RFC3339)}
}

// Client talks to the spreadsheet API for a single configured sheet.
type Client struct {
	saEmail       string
	key           *rsa.PrivateKey
	spreadsheetID string
	sheetName     string
	httpc         *http.Client
	now           func() time.Time
	tokenURL      string
	apiBase       string

	mu    sync.Mutex
	token string
	exp   time.Time
}

// New parses the PEM-encoded service-account key. Empty credentials yield
// a disabled client whose Sync returns ErrDisabled.
func New(saEmail, privateKeyPEM, spreadsheetID, sheetName string) (*Client, error) {
	c := &Client{
		saEmail:       saEmail,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		httpc:         &http.Client{Timeout: 20 * time.Second},
		now:           time.Now,
		tokenURL:      tokenURL,
		apiBase:       sheetsAPI,
	}
	if saEmail == "" || privateKeyPEM == "" || spreadsheetID == "" {
		return c, nil
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	c.key = key
	return c, nil
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool { return c.key != nil }

// assertion builds the RS256-signed service-account JWT.
func (c *Client) assertion() (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"iss":   c.saEmail,
		"scope": sheetsScope,
		"aud":   c.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.key)
}

// bearer exchanges the assertion for an access token, caching it until
// shortly before expiry.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.exp.Add(-time.Minute)) {
		return c.token, nil
	}
	assertion, err := c.assertion()
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, string(snippet))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	c.token = tok.AccessToken
	c.exp = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

// Sync upserts one row: if the order ID is found in column A the row is
// updated in place, otherwise a new row is appended.
func (c *Client) Sync(ctx context.Context, row Row) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}
	idx, err := c.findRow(ctx, token, row.ID)
	if err != nil {
		return err
	}
	if idx > 0 {
		return c.updateRow(ctx, token, idx, row)
	}
	return c.appendRow(ctx, token, row)
}

// SyncAll upserts many rows, stopping at the first hard failure.
func (c *Client) SyncAll(ctx context.Context, rows []Row) error {
	for _, r := range rows {
		if err := c.Sync(ctx, r); err != nil {
			return fmt.Errorf("sync order %s: %w", r.ID, err)
		}
	}
	return nil
}

// findRow returns the 1-based sheet row whose column A equals id, or 0.
func (c *Client) findRow(ctx context.Context, token, id string) (int, error) {
	u := fmt.Sprintf("%s/%s/values/%s", c.apiBase, url.PathEscape(c.spreadsheetID), url.PathEscape(c.sheetName+"!A:A"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("read column A returned %d", resp.StatusCode)
	}
	var out struct {
		Values [][]string `json:"values"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	for i, cells := range out.Values {
		if len(cells) > 0 && cells[0] == id {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (c *Client) updateRow(ctx context.Context, token string, rowIndex int, row Row) error {
	rangeRef := fmt.Sprintf("%s!A%d", c.sheetName, rowIndex)
	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", c.apiBase, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeRef))
	return c.writeValues(ctx, token, http.MethodPut, u, rangeRef, row)
}

func (c *Client) appendRow(ctx context.Context, token string, row Row) error {
	rangeRef := c.sheetName + "!A:G"
	u := fmt.Sprintf("%s/%s/values/%s:append?valueInputOption=RAW&insertDataOption=INSERT_ROWS", c.apiBase, url.PathEscape(c.spreadsheetID), url.PathEscape(rangeRef))
	return c.writeValues(ctx, token, http.MethodPost, u, rangeRef, row)
}

func (c *Client) writeValues(ctx context.Context, token, method, u, rangeRef string, row Row) error {
	payload := map[string]any{
		"range":  rangeRef,
		"values": [][]any{row.values()},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheet write returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

// FormatOrderID renders a numeric order id the way column A stores it.
func FormatOrderID(id uint) string { return strconv.FormatUint(uint64(id), 10) }
