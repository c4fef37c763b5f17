package hashbow

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// DefaultDimension is the vector size used when none is configured.
const DefaultDimension = 128

const bigramWeight = 0.5

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Embedder is a deterministic hashed bag-of-words embedder over token
// unigrams and bigrams. It needs no model, no network and no credentials,
// and always produces the same vector for the same text.
type Embedder struct {
	dim int
}

// New creates a hashed bag-of-words embedder. dim <= 0 selects DefaultDimension.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{dim: dim}
}

// Name returns the backend identifier, which encodes the dimension.
func (e *Embedder) Name() string { return fmt.Sprintf("hashbow:%d", e.dim) }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dim }

// Embed returns an L2-normalized embedding vector for the given text.
// Text with no usable tokens embeds to the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec, nil
	}
	for _, tok := range tokens {
		vec[e.bucket(tok)] += 1.0
	}
	for i := 0; i+1 < len(tokens); i++ {
		vec[e.bucket(tokens[i]+" "+tokens[i+1])] += bigramWeight
	}
	normalize(vec)
	return vec, nil
}

// EmbedBatch embeds every text in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *Embedder) bucket(token string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	idx := int(h.Sum32()) % e.dim
	if idx < 0 {
		idx = -idx
	}
	return idx
}

func tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	out := words[:0]
	for _, w := range words {
		if stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

func normalize(vec []float32) {
	var sumSq float32
	for _, v := range vec {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sumSq)))
	for i, v := range vec {
		vec[i] = v * inv
	}
}

var stopWords = map[string]bool{
	"i": true, "me": true, "my": true, "we": true, "our": true, "you": true, "your": true,
	"it": true, "its": true, "they": true, "them": true, "their": true, "this": true,
	"that": true, "these": true, "those": true, "am": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true, "a": true,
	"an": true, "the": true, "and": true, "but": true, "if": true, "or": true,
	"because": true, "as": true, "until": true, "while": true, "of": true, "at": true,
	"by": true, "for": true, "with": true, "about": true, "into": true, "through": true,
	"during": true, "before": true, "after": true, "to": true, "from": true, "up": true,
	"down": true, "in": true, "out": true, "on": true, "off": true, "over": true,
	"under": true, "again": true, "then": true, "once": true, "here": true, "there": true,
	"when": true, "where": true, "how": true, "all": true, "any": true, "both": true,
	"each": true, "few": true, "more": true, "most": true, "other": true, "some": true,
	"such": true, "no": true, "nor": true, "not": true, "only": true, "own": true,
	"same": true, "so": true, "than": true, "too": true, "very": true, "s": true,
	"t": true, "can": true, "will": true, "just": true, "don": true, "should": true,
	"now": true,
}
