package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// Client calls a chat-completions style API to turn signals into narration
// segments
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	userAgent   string
}

// Ensure Client implements Generator interface
var _ Generator = (*Client)(nil)

// Config holds configuration for the content-generation client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	UserAgent   string
	Timeout     time.Duration
}

// NewClient creates a new content-generation client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "PodditAPI/1.0"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		userAgent:   cfg.UserAgent,
	}
}

const systemPrompt = `You are a podcast script writer. Given a listener's captured notes
(links, topics, voice transcripts), group them into a short narrated episode.
Respond with JSON only, in this shape:
{"title": "...", "summary": "...", "segments": [{"text": "...", "sources": [{"name": "...", "url": "..."}]}]}
Each segment is 2-4 spoken sentences. Cite the sources actually used, in the
order they are mentioned. Do not add a sign-off; the closing remark is
appended separately.`

// chat API wire types

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *jsonFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// generatedScript is the JSON document the model is asked to emit
type generatedScript struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Segments []struct {
		Text    string `json:"text"`
		Sources []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"sources"`
	} `json:"segments"`
}

// GenerateSegments converts the selected signals into ordered narration
// segments via the external API
func (c *Client) GenerateSegments(ctx context.Context, signals []models.Signal) (*Draft, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: formatSignalsPrompt(signals)},
		},
		Temperature:    c.temperature,
		ResponseFormat: &jsonFormat{Type: "json_object"},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"

	// Inherit the deadline but not values, so internal request metadata does
	// not leak to the external API.
	cleanCtx := context.Background()
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		cleanCtx, cancel = context.WithDeadline(cleanCtx, deadline)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(cleanCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[ERROR] Content API returned status %d for %s", resp.StatusCode, endpoint)
		return nil, NewAPIError(endpoint, resp.StatusCode, string(message))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, NewAPIError(endpoint, resp.StatusCode, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrSynthesisFailed)
	}

	return parseDraft(chatResp.Choices[0].Message.Content)
}

// parseDraft decodes the model's JSON document into a Draft
func parseDraft(content string) (*Draft, error) {
	var generated generatedScript
	if err := json.Unmarshal([]byte(content), &generated); err != nil {
		return nil, fmt.Errorf("%w: parsing script document: %v", ErrSynthesisFailed, err)
	}

	if len(generated.Segments) == 0 {
		return nil, ErrEmptyScript
	}

	draft := &Draft{
		Title:   generated.Title,
		Summary: generated.Summary,
	}

	for _, segment := range generated.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		sd := SegmentDraft{Text: text}
		for _, source := range segment.Sources {
			if strings.TrimSpace(source.Name) == "" {
				continue
			}
			sd.Sources = append(sd.Sources, models.SegmentSource{Name: source.Name, URL: source.URL})
		}
		draft.Segments = append(draft.Segments, sd)
	}

	if len(draft.Segments) == 0 {
		return nil, ErrEmptyScript
	}

	return draft, nil
}

// formatSignalsPrompt renders the selected signals as the user message
func formatSignalsPrompt(signals []models.Signal) string {
	var b strings.Builder
	b.WriteString("Captured notes for this episode:\n")

	for i, signal := range signals {
		fmt.Fprintf(&b, "\n%d. [%s] %s", i+1, signal.Kind, signal.Content)
		if signal.Title != "" {
			fmt.Fprintf(&b, "\n   title: %s", signal.Title)
		}
		if signal.URL != "" {
			fmt.Fprintf(&b, "\n   url: %s", signal.URL)
		}
		if signal.Source != "" {
			fmt.Fprintf(&b, "\n   source: %s", signal.Source)
		}
		if len(signal.Topics) > 0 {
			fmt.Fprintf(&b, "\n   topics: %s", strings.Join(signal.Topics, ", "))
		}
	}

	return b.String()
}
