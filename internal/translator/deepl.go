package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIURL is the DeepL free-tier translate endpoint.
const DefaultAPIURL = "https://api-free.deepl.com/v2/translate"

// languageCodes maps supported locales to DeepL target language codes.
var languageCodes = map[string]string{
	"en": "EN",
	"fr": "FR",
	"it": "IT",
	"es": "ES",
	"de": "DE",
	"nl": "NL",
	"pl": "PL",
	"pt": "PT",
}

// LanguageCode returns the external service code for a locale. Locales
// like "fr_BE" resolve through their language part.
func LanguageCode(locale string) (string, bool) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if code, ok := languageCodes[locale]; ok {
		return code, true
	}
	if idx := strings.IndexAny(locale, "_-"); idx > 0 {
		if code, ok := languageCodes[locale[:idx]]; ok {
			return code, true
		}
	}
	return "", false
}

// DeepLClient calls the DeepL HTTP API.
type DeepLClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewDeepLClient constructs a DeepLClient. An empty apiURL selects the
// free-tier endpoint; timeout bounds every request.
func NewDeepLClient(apiURL, apiKey string, timeout time.Duration) *DeepLClient {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DeepLClient{
		apiURL:     apiURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type deepLResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate sends one text to the external service and returns the
// translated text for the target locale.
func (c *DeepLClient) Translate(ctx context.Context, text, targetLocale string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("deepl: missing api key")
	}
	code, ok := LanguageCode(targetLocale)
	if !ok {
		return "", fmt.Errorf("deepl: unsupported target locale %q", targetLocale)
	}

	form := url.Values{}
	form.Set("auth_key", c.apiKey)
	form.Set("text", text)
	form.Set("target_lang", code)
	form.Set("source_lang", "EN")

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if errReq != nil {
		return "", fmt.Errorf("deepl: build request: %w", errReq)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, errDo := c.httpClient.Do(req)
	if errDo != nil {
		return "", fmt.Errorf("deepl: request: %w", errDo)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deepl: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded deepLResponse
	if errDecode := json.NewDecoder(resp.Body).Decode(&decoded); errDecode != nil {
		return "", fmt.Errorf("deepl: decode response: %w", errDecode)
	}
	if len(decoded.Translations) == 0 {
		return "", fmt.Errorf("deepl: empty translations payload")
	}
	return decoded.Translations[0].Text, nil
}
