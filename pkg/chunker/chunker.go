// Package chunker splits raw text into overlapping chunks of sentences.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// ErrInvalidParams is returned when the chunking parameters are out of range.
var ErrInvalidParams = errors.New("invalid chunking parameters")

// DefaultLanguage is the sentence boundary model used when none is configured.
const DefaultLanguage = "english"

// Chunker splits text into fixed-size chunks of sentences with an
// optional overlap prefix carried over from the previous chunk.
type Chunker struct {
	sentencesPerChunk int
	overlap           int
	language          string
	tokenizer         *sentences.DefaultSentenceTokenizer
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLanguage selects the sentence boundary model. Only "english"
// ships with embedded training data; anything else fails construction.
func WithLanguage(lang string) Option {
	return func(c *Chunker) {
		if lang != "" {
			c.language = lang
		}
	}
}

// New creates a Chunker. It fails with ErrInvalidParams unless
// sentencesPerChunk >= 2 and 0 <= overlap <= sentencesPerChunk-2.
func New(sentencesPerChunk, overlap int, opts ...Option) (*Chunker, error) {
	if sentencesPerChunk < 2 {
		return nil, fmt.Errorf("%w: sentences per chunk must be 2 or more, got %d", ErrInvalidParams, sentencesPerChunk)
	}
	if overlap < 0 || overlap >= sentencesPerChunk-1 {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d], got %d", ErrInvalidParams, sentencesPerChunk-2, overlap)
	}

	c := &Chunker{
		sentencesPerChunk: sentencesPerChunk,
		overlap:           overlap,
		language:          DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !strings.EqualFold(c.language, DefaultLanguage) {
		return nil, fmt.Errorf("%w: no sentence training data for language %q", ErrInvalidParams, c.language)
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sentence tokenizer: %w", err)
	}
	c.tokenizer = tokenizer

	return c, nil
}

// SentencesPerChunk returns the configured stride size.
func (c *Chunker) SentencesPerChunk() int { return c.sentencesPerChunk }

// Overlap returns the configured overlap size.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits text into chunks of sentencesPerChunk sentences. Every
// chunk after the first is prefixed with the overlap sentences that
// immediately precede it. The result is deterministic for a given text.
func (c *Chunker) Chunk(text string) []string {
	sents := c.split(text)
	if len(sents) == 0 {
		return []string{}
	}

	var chunks []string
	for i := 0; i < len(sents); i += c.sentencesPerChunk {
		end := i + c.sentencesPerChunk
		if end > len(sents) {
			end = len(sents)
		}
		chunk := strings.Join(sents[i:end], " ")

		if c.overlap > 0 && i > 0 {
			overlapStart := i - c.overlap
			if overlapStart < 0 {
				overlapStart = 0
			}
			chunk = strings.Join(sents[overlapStart:i], " ") + " " + chunk
		}

		chunks = append(chunks, strings.TrimSpace(chunk))
	}

	return chunks
}

// split tokenizes text into trimmed, non-empty sentences.
func (c *Chunker) split(text string) []string {
	var out []string
	for _, s := range c.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
