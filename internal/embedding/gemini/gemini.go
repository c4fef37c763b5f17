package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxBatchSize is the per-request text limit of the batch embeddings endpoint.
const maxBatchSize = 100

var modelDimensions = map[string]int{
	"text-embedding-004": 768,
	"embedding-001":      768,
}

// Client is a Gemini embeddings client. Vectors from this backend are not
// interchangeable with those of the local fallback embedder.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	client     *http.Client
	maxRetries uint64
	dim        atomic.Int32
}

// Config configures the Gemini embeddings client.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient creates a new embeddings client using the provided configuration.
// It fails when the API key environment variable is unset.
func NewClient(cfg Config) (*Client, error) {
	env := cfg.APIKeyEnv
	if env == "" {
		env = "GOOGLE_API_KEY"
	}
	key := os.Getenv(env)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", env)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 4
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: uint64(retries),
	}
	c.dim.Store(int32(modelDimensions[cfg.Model]))
	return c, nil
}

// Name returns the backend identifier, which encodes the model.
func (c *Client) Name() string { return "gemini:" + c.model }

// Dimension returns the dimensionality of the produced embedding vectors.
// For unknown models it is zero until the first successful embed.
func (c *Client) Dimension() int { return int(c.dim.Load()) }

// Probe performs a single cheap embed to verify the backend is reachable
// and the credential is valid.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Embed(ctx, "ping")
	return err
}

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body := embedRequest{Model: c.modelPath(), Content: content{Parts: []part{{Text: text}}}}
	var out embedResponse
	if err := c.post(ctx, c.endpoint("embedContent"), body, &out); err != nil {
		return nil, err
	}
	if len(out.Embedding.Values) == 0 {
		return nil, errors.New("no embedding returned")
	}
	c.noteDimension(len(out.Embedding.Values))
	return out.Embedding.Values, nil
}

// EmbedBatch embeds every text in order, splitting the request to respect
// the endpoint's batch size limit.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		body := batchRequest{}
		for _, t := range texts[start:end] {
			body.Requests = append(body.Requests, embedRequest{
				Model:   c.modelPath(),
				Content: content{Parts: []part{{Text: t}}},
			})
		}
		var out batchResponse
		if err := c.post(ctx, c.endpoint("batchEmbedContents"), body, &out); err != nil {
			return nil, err
		}
		if len(out.Embeddings) != end-start {
			return nil, fmt.Errorf("expected %d embeddings, got %d", end-start, len(out.Embeddings))
		}
		for _, e := range out.Embeddings {
			if len(e.Values) == 0 {
				return nil, errors.New("no embedding returned")
			}
			c.noteDimension(len(e.Values))
			vectors = append(vectors, e.Values)
		}
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	backoff := retry.WithCappedDuration(5*time.Second, retry.NewExponential(200*time.Millisecond))
	backoff = retry.WithMaxRetries(c.maxRetries, backoff)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("gemini embeddings failed: %s", resp.Status))
		}
		if resp.StatusCode >= 300 {
			return fmt.Errorf("gemini embeddings failed: %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/models/%s:%s", c.baseURL, c.model, method)
}

func (c *Client) modelPath() string { return "models/" + c.model }

func (c *Client) noteDimension(n int) {
	c.dim.CompareAndSwap(0, int32(n))
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedding struct {
	Values []float32 `json:"values"`
}

type embedResponse struct {
	Embedding embedding `json:"embedding"`
}

type batchRequest struct {
	Requests []embedRequest `json:"requests"`
}

type batchResponse struct {
	Embeddings []embedding `json:"embeddings"`
}
