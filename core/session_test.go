package core

import (
	"testing"
	"time"
)

func TestSession_LikeDislikeReset(t *testing.T) {
	s := NewSession(3)
	now := time.Unix(1_700_000_000, 0)

	if err := s.Like(0, now); err != nil {
		t.Fatalf("Like(0) error: %v", err)
	}
	if err := s.Like(0, now.Add(time.Minute)); err != nil {
		t.Fatalf("repeated Like error: %v", err)
	}
	if err := s.Dislike(2); err != nil {
		t.Fatalf("Dislike(2) error: %v", err)
	}

	if got := s.LikeCount(); got != 2 {
		t.Errorf("LikeCount = %d, want 2 (duplicates kept)", got)
	}
	if got := s.LikedIndices(); len(got) != 1 || got[0] != 0 {
		t.Errorf("LikedIndices = %v, want [0]", got)
	}
	if !s.IsLiked(0) || s.IsLiked(1) {
		t.Error("IsLiked wrong")
	}
	if !s.IsDisliked(2) || s.IsDisliked(0) {
		t.Error("IsDisliked wrong")
	}

	s.Reset()
	if s.LikeCount() != 0 || s.DislikeCount() != 0 {
		t.Error("Reset must clear both likes and dislikes")
	}
}

func TestSession_OutOfRangeRejected(t *testing.T) {
	s := NewSession(3)

	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"past end", 3},
		{"far past end", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Like(tt.index, time.Now()); !IsInvalidInput(err) {
				t.Errorf("Like(%d) = %v, want INVALID_INPUT", tt.index, err)
			}
			if err := s.Dislike(tt.index); !IsInvalidInput(err) {
				t.Errorf("Dislike(%d) = %v, want INVALID_INPUT", tt.index, err)
			}
		})
	}

	if s.LikeCount() != 0 || s.DislikeCount() != 0 {
		t.Error("rejected feedback must leave the log untouched")
	}
}

func TestSession_DislikeIdempotent(t *testing.T) {
	s := NewSession(2)
	_ = s.Dislike(1)
	_ = s.Dislike(1)
	if got := s.Dislikes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Dislikes = %v, want [1]", got)
	}
}
