package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ozon-radar/models"
	"ozon-radar/utils"
)

// DefaultTranslateLimit bounds how many titles are sent for translation.
const DefaultTranslateLimit = 30

// Translator renders a title in the analyst's language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleTranslator calls the public Google Translate web endpoint.
type GoogleTranslator struct {
	client  *http.Client
	baseURL string
	target  string
	limiter *rate.Limiter
}

// NewGoogleTranslator creates a translator into the target language.
func NewGoogleTranslator(target string) *GoogleTranslator {
	return newGoogleTranslator(
		&http.Client{Timeout: 10 * time.Second},
		"https://translate.googleapis.com",
		target,
		rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	)
}

func newGoogleTranslator(client *http.Client, baseURL, target string, limiter *rate.Limiter) *GoogleTranslator {
	if target == "" {
		target = "zh-CN"
	}
	return &GoogleTranslator{client: client, baseURL: baseURL, target: target, limiter: limiter}
}

// Translate returns the translated text or a TranslationFailure error.
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", models.Wrap(models.KindTranslationFailure, err, "rate limit wait")
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", g.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_a/single?"+params.Encode(), nil)
	if err != nil {
		return "", models.Wrap(models.KindTranslationFailure, err, "build request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", models.Wrap(models.KindTranslationFailure, err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", models.NewError(models.KindTranslationFailure, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.Wrap(models.KindTranslationFailure, err, "read body")
	}

	out, err := parseGoogleTranslation(body)
	if err != nil {
		return "", models.Wrap(models.KindTranslationFailure, err, "decode body")
	}
	return out, nil
}

// parseGoogleTranslation reads [[["translated","source",...],...],...].
func parseGoogleTranslation(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty payload")
	}

	var segments [][]any
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return sb.String(), nil
}

// TitleTranslator applies a Translator to a batch of titles, one failure at
// a time never aborting the batch.
type TitleTranslator struct {
	translator Translator
	limit      int
	logger     *utils.Logger
}

// NewTitleTranslator wraps t. Only the first limit titles are translated; a
// nil t leaves every title as is.
func NewTitleTranslator(t Translator, limit int, logger *utils.Logger) *TitleTranslator {
	if limit <= 0 {
		limit = DefaultTranslateLimit
	}
	return &TitleTranslator{translator: t, limit: limit, logger: logger}
}

// Apply fills TitleLocal on each listing and returns the number of failed
// translations. Failed or skipped titles keep the original text.
func (tt *TitleTranslator) Apply(ctx context.Context, listings []*models.Listing) int {
	failures := 0
	for i, l := range listings {
		l.TitleLocal = l.TitleOriginal
		if tt.translator == nil || i >= tt.limit {
			continue
		}

		out, err := tt.translator.Translate(ctx, l.TitleOriginal)
		if err != nil {
			failures++
			tt.logger.Debug("[translator] Keeping original title %q: %v", l.TitleOriginal, err)
			continue
		}
		if out = strings.TrimSpace(out); out != "" {
			l.TitleLocal = out
		}
	}

	if failures > 0 {
		tt.logger.Warn("[translator] %d of %d titles kept their original text", failures, min(len(listings), tt.limit))
	}
	return failures
}
