package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeInterestTag(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Music", "music"},
		{"  travel  ", "travel"},
		{"VIDEO GAMES", "video-games"},
		{"board_games", "board-games"},
		{"photography", "photography"},
	}

	for _, c := range cases {
		got := NormalizeInterestTag(c.input)
		if got != c.expected {
			t.Errorf("NormalizeInterestTag(%q) = %q, expected %q", c.input, got, c.expected)
		}
	}
}

func TestIsValidRoomInterest(t *testing.T) {
	valid := []string{"music", "travel", "photography", "technology"}
	for _, tag := range valid {
		if !IsValidRoomInterest(tag) {
			t.Errorf("Expected %q to be valid", tag)
		}
	}

	invalid := []string{
		"",
		"x",               // too short
		"Music",           // not normalized
		"rock climbing",   // space not allowed after normalization step
		"-music",          // leading hyphen
		"music-",          // trailing hyphen
		"knitting",        // unknown category
		"music--travel",   // double hyphen
	}
	for _, tag := range invalid {
		if IsValidRoomInterest(tag) {
			t.Errorf("Expected %q to be invalid", tag)
		}
	}
}

func TestNormalizeRoomInterests(t *testing.T) {
	got, ok := NormalizeRoomInterests([]string{"Travel", "MUSIC", "  art  "})
	if !ok {
		t.Fatal("Expected normalization to succeed")
	}

	expected := []string{"art", "music", "travel"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestNormalizeRoomInterests_Deduplicates(t *testing.T) {
	got, ok := NormalizeRoomInterests([]string{"music", "Music", "MUSIC"})
	if !ok {
		t.Fatal("Expected normalization to succeed")
	}

	if len(got) != 1 || got[0] != "music" {
		t.Errorf("Expected [music], got %v", got)
	}
}

func TestNormalizeRoomInterests_Idempotent(t *testing.T) {
	first, ok := NormalizeRoomInterests([]string{"Travel", "music", "ART"})
	if !ok {
		t.Fatal("Expected normalization to succeed")
	}

	second, ok := NormalizeRoomInterests(first)
	if !ok {
		t.Fatal("Expected renormalization to succeed")
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected idempotent result, got %v then %v", first, second)
	}
}

func TestNormalizeRoomInterests_Empty(t *testing.T) {
	got, ok := NormalizeRoomInterests(nil)
	if !ok {
		t.Fatal("Expected nil input to succeed")
	}
	if len(got) != 0 {
		t.Errorf("Expected empty set, got %v", got)
	}
}

func TestNormalizeRoomInterests_InvalidTag(t *testing.T) {
	if _, ok := NormalizeRoomInterests([]string{"music", "knitting"}); ok {
		t.Error("Expected unknown category to fail")
	}
}

func TestNormalizeRoomInterests_TooMany(t *testing.T) {
	tags := make([]string, MaxRoomInterests+1)
	for i := range tags {
		tags[i] = "music"
	}

	if _, ok := NormalizeRoomInterests(tags); ok {
		t.Error("Expected oversized set to fail")
	}
}

func TestRoomInterestCategories_Sorted(t *testing.T) {
	categories := RoomInterestCategories()
	if len(categories) == 0 {
		t.Fatal("Expected categories to be non-empty")
	}

	for i := 1; i < len(categories); i++ {
		if categories[i-1] >= categories[i] {
			t.Errorf("Expected sorted categories, got %v", categories)
			break
		}
	}

	for _, c := range categories {
		if !IsValidRoomInterest(c) {
			t.Errorf("Expected category %q to validate", c)
		}
	}
}
