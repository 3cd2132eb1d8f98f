// Package speech calls the Azure Speech text-to-speech API. Unlike music
// generation, synthesis is synchronous: the response body is the audio
// payload itself, so there is no correlation id and no webhook.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scottrhay/AIAMusic/internal/infra"
	"github.com/scottrhay/AIAMusic/internal/providers"
)

// MaxTextLength bounds the synthesized input.
const MaxTextLength = 10000

// DefaultVoice is used when a request names no voice.
const DefaultVoice = "en-US-AndrewMultilingualNeural"

// Options configures the Azure Speech client.
type Options struct {
	SubscriptionKey string
	Region          string
	OutputFormat    string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
}

// Client performs HTTP calls to the regional Azure TTS endpoint.
type Client struct {
	subscriptionKey string
	endpoint        string
	outputFormat    string
	httpClient      *http.Client
	logger          *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			// The full audio payload comes back inline, so the bound is
			// longer than the music submission acknowledgment.
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "eastus2"
	}
	format := strings.TrimSpace(opts.OutputFormat)
	if format == "" {
		format = "audio-16khz-128kbitrate-mono-mp3"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		subscriptionKey: strings.TrimSpace(opts.SubscriptionKey),
		endpoint:        fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		outputFormat:    format,
		httpClient:      httpClient,
		logger:          logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.subscriptionKey != ""
}

// Synthesize converts text to audio with the given voice and returns the
// raw audio bytes. The error, if any, is one of the providers package
// sentinels wrapped with detail.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: AZURE_SPEECH_KEY is not set", providers.ErrUnconfigured)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", providers.ErrRejected)
	}
	if len(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: text exceeds maximum length of %d characters", providers.ErrRejected, MaxTextLength)
	}
	if strings.TrimSpace(voice) == "" {
		voice = DefaultVoice
	}

	ssml := buildSSML(text, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader([]byte(ssml)))
	if err != nil {
		return nil, fmt.Errorf("speech: build request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.outputFormat)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: synthesis did not finish in time", providers.ErrTimeout)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: synthesis did not finish in time", providers.ErrTimeout)
		}
		return nil, fmt.Errorf("%w: %v", providers.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: the subscription key may be invalid", providers.ErrAuthFailed)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: access denied for this subscription", providers.ErrQuotaExceeded)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: try again later", providers.ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: the service may be down", providers.ErrUnavailable)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: unexpected status %d", providers.ErrRejected, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %v", providers.ErrBadResponse, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", providers.ErrBadResponse)
	}
	c.logger.Debug().Str("voice", voice).Int("bytes", len(audio)).Msg("speech: synthesized audio")
	return audio, nil
}

func buildSSML(text, voice string) string {
	var b strings.Builder
	b.WriteString("<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>")
	b.WriteString("<voice name='" + escapeAttr(voice) + "'>")
	b.WriteString(escapeText(text))
	b.WriteString("</voice></speak>")
	return b.String()
}

func escapeText(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(text)
}

// escapeAttr additionally neutralizes quotes: the voice name lands inside a
// single-quoted attribute.
func escapeAttr(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"'", "&apos;",
		`"`, "&quot;",
	)
	return replacer.Replace(value)
}
