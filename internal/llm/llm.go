package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "deepseek-llm:7b"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultNumCtx      = 8192

	// deepseek-llm:7b runs with an 8k-token window; roughly 3 chars/token keeps the prompt
	// template and the answer inside it.
	maxContextChars = 16_000
	maxHistoryChars = 6_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// DefaultQuestion is asked when only attachments were submitted.
const DefaultQuestion = "What is in the provided context?"

// Provider names accepted by Config.Provider.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config describes how to build an LLM client.
type Config struct {
	Provider    string
	Model       string
	Endpoint    string
	APIKey      string
	Temperature float64
	NumCtx      int
	HTTPClient  *http.Client
}

// Client answers a tech question in the numbered step format.
type Client interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
	Ping(ctx context.Context) error
	Name() string
}

// Exchange is one prior question/answer pair of a session.
type Exchange struct {
	User string `json:"user"`
	AI   string `json:"ai,omitempty"`
}

// AnswerRequest carries everything the prompt is built from.
type AnswerRequest struct {
	// Context is the extracted submission context ("Text: ...", "PDF: ...").
	Context string
	// History holds the session so far, including the exchange being answered.
	History  []Exchange
	Question string
}

// NewFromEnv inspects the config & environment variables to build a client.
func NewFromEnv(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOllama
	}
	switch provider {
	case ProviderOllama:
		host := cfg.Endpoint
		if host == "" {
			if env := os.Getenv("OLLAMA_HOST"); env != "" {
				host = env
			} else {
				host = "http://localhost:11434"
			}
		}
		model := cfg.Model
		if model == "" {
			if env := os.Getenv("OLLAMA_MODEL"); env != "" {
				model = env
			} else {
				model = defaultOllamaModel
			}
		}
		numCtx := cfg.NumCtx
		if numCtx <= 0 {
			numCtx = defaultNumCtx
		}
		return &ollamaClient{
			host:        strings.TrimRight(host, "/"),
			model:       model,
			temperature: cfg.Temperature,
			numCtx:      numCtx,
			client:      pickHTTPClient(cfg.HTTPClient),
		}, nil
	case ProviderOpenAI:
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("OPENAI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		base := cfg.Endpoint
		if base == "" {
			base = defaultOpenAIBase
		}
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIClient{
			apiKey:      key,
			model:       model,
			base:        strings.TrimRight(base, "/"),
			temperature: cfg.Temperature,
			client:      pickHTTPClient(cfg.HTTPClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Allow longer-running generations (Ollama often needs >60s) and rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}
