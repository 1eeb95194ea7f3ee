package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandeepkv93/eisen/internal/model"
	"google.golang.org/genai"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	FallbackReason   = "AI service unavailable; filed under Schedule."
	defaultReasoning = "Classified by AI."
	maxSubtasks      = 3
	temperature      = float32(0.3)
)

var (
	errEmptyText       = errors.New("classifier: response text is empty")
	errInvalidQuadrant = errors.New("classifier: quadrant outside q1..q4")
	errMissingField    = errors.New("classifier: response is missing a required field")
)

// Result is a validated classification. Fallback marks the fixed result
// returned when the service could not be used.
type Result struct {
	Quadrant  model.Quadrant
	Reasoning string
	Subtasks  []string
	Fallback  bool
}

func FallbackResult() Result {
	return Result{Quadrant: model.QuadrantSchedule, Reasoning: FallbackReason, Fallback: true}
}

type Config struct {
	Model string
	// APIKey is used when the settings carry no key.
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return &Client{cfg: cfg, logger: logger.With().Str("component", "classifier").Logger()}
}

// Classify asks the model for a quadrant, a short reason and up to three
// subtasks. It never fails: any error is logged and FallbackResult returned.
func (c *Client) Classify(ctx context.Context, description string, settings model.AppSettings) Result {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	started := time.Now()
	res, err := c.classify(ctx, description, settings)
	if err != nil {
		c.logger.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("classification failed, using fallback")
		return FallbackResult()
	}
	c.logger.Info().Str("quadrant", string(res.Quadrant)).Int("subtasks", len(res.Subtasks)).Dur("elapsed", time.Since(started)).Msg("classified task")
	return res
}

func (c *Client) classify(ctx context.Context, description string, settings model.AppSettings) (Result, error) {
	client, err := genai.NewClient(ctx, c.clientConfig(settings))
	if err != nil {
		return Result{}, fmt.Errorf("classifier: new client: %w", err)
	}
	resp, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(Prompt(description)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
		Temperature:      genai.Ptr(temperature),
	})
	if err != nil {
		return Result{}, fmt.Errorf("classifier: generate content: %w", err)
	}
	return ParseResponse(resp.Text())
}

// clientConfig picks the key from settings, then the runtime config.
// apiBaseUrl, when set, replaces the Gemini endpoint.
func (c *Client) clientConfig(settings model.AppSettings) *genai.ClientConfig {
	key := strings.TrimSpace(settings.APIKey)
	if key == "" {
		key = strings.TrimSpace(c.cfg.APIKey)
	}
	cc := &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI}
	if base := strings.TrimSpace(settings.APIBaseURL); base != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(base, "/") + "/"
	}
	return cc
}

// payload fields are pointers so absent keys can be told apart from empty
// values; all three are required.
type payload struct {
	Quadrant  *string   `json:"quadrant"`
	Reasoning *string   `json:"reasoning"`
	Subtasks  *[]string `json:"subtasks"`
}

// ParseResponse validates the model's JSON text.
func ParseResponse(text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, errEmptyText
	}
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return Result{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	switch {
	case p.Quadrant == nil:
		return Result{}, fmt.Errorf("%w: quadrant", errMissingField)
	case p.Reasoning == nil:
		return Result{}, fmt.Errorf("%w: reasoning", errMissingField)
	case p.Subtasks == nil:
		return Result{}, fmt.Errorf("%w: subtasks", errMissingField)
	}
	q := model.Quadrant(strings.ToLower(strings.TrimSpace(*p.Quadrant)))
	if !q.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", errInvalidQuadrant, *p.Quadrant)
	}
	res := Result{Quadrant: q, Reasoning: strings.TrimSpace(*p.Reasoning)}
	if res.Reasoning == "" {
		res.Reasoning = defaultReasoning
	}
	for _, st := range *p.Subtasks {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		res.Subtasks = append(res.Subtasks, st)
		if len(res.Subtasks) == maxSubtasks {
			break
		}
	}
	return res, nil
}

func Prompt(description string) string {
	return fmt.Sprintf(`Classify this task on the Eisenhower matrix: %q

Quadrants:
- Do First (q1): urgent and important (crises, deadlines).
- Schedule (q2): important but not urgent (planning, learning, health).
- Delegate (q3): urgent but not important (interruptions, some meetings, chores).
- Eliminate (q4): neither urgent nor important (time wasters, busywork).

Give the reasoning in ten words or fewer. If the task is complex, suggest at most three subtasks; otherwise return an empty array.`, description)
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"quadrant": {
				Type:        genai.TypeString,
				Enum:        []string{"q1", "q2", "q3", "q4"},
				Description: "Eisenhower quadrant id",
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "Why, in ten words or fewer",
			},
			"subtasks": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Up to three subtasks for complex tasks, else empty",
			},
		},
		Required: []string{"quadrant", "reasoning", "subtasks"},
	}
}
