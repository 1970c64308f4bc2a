package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestNew_ParamValidation(t *testing.T) {
	cases := []struct {
		name              string
		sentencesPerChunk int
		overlap           int
		wantErr           bool
	}{
		{"minimum valid", 2, 0, false},
		{"typical", 10, 2, false},
		{"max overlap", 5, 3, false},
		{"too few sentences", 1, 0, true},
		{"zero sentences", 0, 0, true},
		{"negative overlap", 3, -1, true},
		{"overlap equals chunk minus one", 3, 2, true},
		{"overlap exceeds chunk", 3, 5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.sentencesPerChunk, tc.overlap)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParams) {
					t.Fatalf("expected ErrInvalidParams, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_LanguageValidation(t *testing.T) {
	if _, err := New(2, 0, WithLanguage("english")); err != nil {
		t.Fatalf("unexpected error for english: %v", err)
	}
	if _, err := New(2, 0, WithLanguage("English")); err != nil {
		t.Fatalf("expected case-insensitive language match, got %v", err)
	}

	_, err := New(2, 0, WithLanguage("german"))
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for unsupported language, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "german") {
		t.Errorf("error should name the rejected language: %v", err)
	}
}

func TestChunk_EmptyText(t *testing.T) {
	c, err := New(2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := c.Chunk("")
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty text, got %d", len(chunks))
	}

	chunks = c.Chunk("   \n\t  ")
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace text, got %d", len(chunks))
	}
}

func TestChunk_CountAndContentPreservation(t *testing.T) {
	// Five sentences, two per chunk, no overlap: ceil(5/2) = 3 chunks.
	text := "The sky is blue. Grass is green. Snow is cold. Fire is hot. Water is wet."

	c, err := New(2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := c.Chunk(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}

	// With no overlap, concatenating the chunks reproduces every
	// sentence exactly once in order.
	if got := strings.Join(chunks, " "); got != text {
		t.Errorf("concatenated chunks differ from input:\n got:  %q\n want: %q", got, text)
	}
}

func TestChunk_FinalChunkMayBeShorter(t *testing.T) {
	text := "One is here. Two is here. Three is here. Four is here. Five is here."

	c, err := New(3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := c.Chunk(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if want := "Four is here. Five is here."; chunks[1] != want {
		t.Errorf("final chunk = %q, want %q", chunks[1], want)
	}
}

func TestChunk_OverlapPrefix(t *testing.T) {
	text := "Alpha comes first. Beta comes second. Gamma comes third. " +
		"Delta comes fourth. Epsilon comes fifth. Zeta comes sixth."

	c, err := New(3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chunks := c.Chunk(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}

	// The first chunk carries no prefix.
	if want := "Alpha comes first. Beta comes second. Gamma comes third."; chunks[0] != want {
		t.Errorf("first chunk = %q, want %q", chunks[0], want)
	}

	// The second chunk is prefixed with the last sentence of the first.
	if !strings.HasPrefix(chunks[1], "Gamma comes third. Delta comes fourth.") {
		t.Errorf("second chunk missing overlap prefix: %q", chunks[1])
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := "First point. Second point. Third point. Fourth point. Fifth point."

	c, err := New(2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := c.Chunk(text)
	second := c.Chunk(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}
