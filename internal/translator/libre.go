package translator

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 4096

// LibreClient talks to a LibreTranslate-compatible endpoint. Every call
// makes exactly one HTTP request; nothing is retried.
type LibreClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewLibreClient creates a client for baseURL. A timeout <= 0 leaves the
// request unbounded unless ctx carries a deadline.
func NewLibreClient(baseURL string, timeout time.Duration, logger *zap.Logger) *LibreClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &LibreClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Name identifies the backend in logs.
func (c *LibreClient) Name() string {
	return "libretranslate"
}

// Translate sends req in a single POST /translate. Failures come back as
// *ConnectionError, *HTTPError or *ParseError.
func (c *LibreClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/translate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var libreResp struct {
		TranslatedText   *string           `json:"translatedText"`
		DetectedLanguage *DetectedLanguage `json:"detectedLanguage"`
	}
	if err := c.do(httpReq, &libreResp); err != nil {
		return nil, err
	}

	if libreResp.TranslatedText == nil {
		return nil, &ParseError{Err: errors.New("response has no translatedText field")}
	}

	result := &TranslateResponse{
		TranslatedText:   *libreResp.TranslatedText,
		DetectedLanguage: libreResp.DetectedLanguage,
	}
	if d := result.DetectedLanguage; d != nil {
		c.logger.Debug("source language detected",
			zap.String("language", d.Language),
			zap.Float64("confidence", d.Confidence),
		)
	}
	return result, nil
}

// Languages lists the language pairs the endpoint supports.
func (c *LibreClient) Languages(ctx context.Context) ([]Language, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var langs []Language
	if err := c.do(httpReq, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// do sends httpReq once and decodes a 200 body into out.
func (c *LibreClient) do(httpReq *http.Request, out any) error {
	requestID := uuid.New().String()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", httpReq.Method),
		zap.String("url", httpReq.URL.String()),
	)
	log.Debug("sending request")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return &ConnectionError{URL: httpReq.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling
// back to the raw body text.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return strings.TrimSpace(string(raw))
}
