package vectorize

import (
	"math"
	"reflect"
	"testing"
)

func TestFit_DeterministicVocabulary(t *testing.T) {
	docs := []string{
		"wireless headphones with noise cancellation",
		"running sneakers lightweight sport",
		"leather wallet handmade",
	}

	s1 := Fit(docs)
	s2 := Fit(docs)

	if !reflect.DeepEqual(s1.Terms(), s2.Terms()) {
		t.Fatalf("vocabulary differs between runs: %v vs %v", s1.Terms(), s2.Terms())
	}
	for i, term := range s1.Terms() {
		if s1.IDF(term) != s2.IDF(term) {
			t.Errorf("idf differs for %q", term)
		}
		if i > 0 && s1.Terms()[i-1] >= term {
			t.Errorf("vocabulary not in lexicographic order at %d: %q >= %q", i, s1.Terms()[i-1], term)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "case folding and stopword removal",
			text: "The Wireless Headphones are great",
			want: []string{"wireless", "headphones", "great"},
		},
		{
			name: "single-char tokens dropped",
			text: "a b laptop",
			want: []string{"laptop"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "only stopwords",
			text: "the and of with",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmbed_UnknownAndStopwordsYieldZeroVector(t *testing.T) {
	space := Fit([]string{"laptop professional", "smartphone camera"})

	tests := []struct {
		name string
		text string
	}{
		{"unknown terms", "zebra quantum"},
		{"only stopwords", "the and with"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := space.Embed(tt.text)
			if len(vec) != space.Dim() {
				t.Fatalf("dim = %d, want %d", len(vec), space.Dim())
			}
			for i, v := range vec {
				if v != 0 {
					t.Errorf("component %d = %v, want 0", i, v)
				}
			}
		})
	}
}

func TestEmbed_L2Normalized(t *testing.T) {
	space := Fit([]string{"laptop professional laptop", "smartphone camera"})
	vec := space.Embed("laptop camera")

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("squared norm = %v, want 1.0", sum)
	}
}

func TestCosine_ZeroVectorIsZeroNotNaN(t *testing.T) {
	zero := []float64{0, 0, 0}
	other := []float64{0.5, 0.5, 0}

	if got := Cosine(zero, other); got != 0 {
		t.Errorf("Cosine(zero, other) = %v, want 0", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Errorf("Cosine(zero, zero) = %v, want 0", got)
	}
	if math.IsNaN(Cosine(zero, other)) {
		t.Error("cosine produced NaN")
	}
}

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float64{0.3, 0.4, 0.5}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Cosine(v, v) = %v, want 1.0", got)
	}
}
