// Package decrypt talks to the external services on the far side of an
// import: spreadsheet decryption and category-correction feedback.
package decrypt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrBadPassword distinguishes a wrong password from every other failure.
// A file that was never encrypted is not an error; the original bytes come
// back unchanged.
var ErrBadPassword = errors.New("incorrect password")

// RequestTimeout bounds one decrypt round-trip.
const RequestTimeout = 30 * time.Second

// Decrypter strips password protection from a spreadsheet file.
type Decrypter interface {
	Decrypt(ctx context.Context, filename string, data []byte, password string) ([]byte, error)
}

// HTTPDecrypter calls the external decryption service.
type HTTPDecrypter struct {
	client  *http.Client
	baseURL string
}

// NewHTTPDecrypter builds a decrypter against the given service URL.
func NewHTTPDecrypter(baseURL string) *HTTPDecrypter {
	return &HTTPDecrypter{
		client:  &http.Client{Timeout: RequestTimeout},
		baseURL: baseURL,
	}
}

// Decrypt uploads the file and password as a multipart form. The service
// answers 200 with decrypted bytes, 200 with the original bytes when the
// file was not encrypted, or 401 for a wrong password.
func (d *HTTPDecrypter) Decrypt(ctx context.Context, filename string, data []byte, password string) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build decrypt form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write decrypt form: %w", err)
	}
	if err := form.WriteField("password", password); err != nil {
		return nil, fmt.Errorf("write decrypt form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close decrypt form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/decrypt", &body)
	if err != nil {
		return nil, fmt.Errorf("create decrypt request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decrypt call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		out, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read decrypted file: %w", err)
		}
		return out, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrBadPassword
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("decrypt service returned %d: %s", resp.StatusCode, msg)
	}
}

// Feedback pushes corrected description→category pairs back to the
// classification service. Fire and forget: failures are logged, never
// surfaced.
type Feedback interface {
	Send(ctx context.Context, corrections map[string]string)
}

// HTTPFeedback posts corrections to the classification service.
type HTTPFeedback struct {
	client  *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewHTTPFeedback builds the feedback sender.
func NewHTTPFeedback(baseURL, token string, logger *slog.Logger) *HTTPFeedback {
	return &HTTPFeedback{
		client:  &http.Client{Timeout: RequestTimeout},
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
}

func (f *HTTPFeedback) Send(ctx context.Context, corrections map[string]string) {
	if len(corrections) == 0 {
		return
	}
	payload, err := json.Marshal(map[string]any{"corrections": corrections})
	if err != nil {
		f.logger.Warn("feedback marshal failed", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/feedback", bytes.NewReader(payload))
	if err != nil {
		f.logger.Warn("feedback request failed", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("feedback call failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("feedback rejected", slog.Int("status", resp.StatusCode))
	}
}
