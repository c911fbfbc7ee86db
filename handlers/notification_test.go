package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecipientsExcluding(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	tests := []struct {
		name    string
		members []primitive.ObjectID
		exclude primitive.ObjectID
		want    []primitive.ObjectID
	}{
		{"exclude first", []primitive.ObjectID{a, b, c}, a, []primitive.ObjectID{b, c}},
		{"exclude middle", []primitive.ObjectID{a, b, c}, b, []primitive.ObjectID{a, c}},
		{"exclude absent", []primitive.ObjectID{a, b}, c, []primitive.ObjectID{a, b}},
		{"empty members", nil, a, []primitive.ObjectID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recipientsExcluding(tt.members, tt.exclude)
			if len(got) != len(tt.want) {
				t.Fatalf("recipientsExcluding() returned %d ids, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("recipientsExcluding()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "hello", "hello"},
		{"exactly 30 runes", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"31 runes truncated", strings.Repeat("a", 31), strings.Repeat("a", 30) + "..."},
		{"korean under limit", "오늘 저녁에 같이 먹을 사람?", "오늘 저녁에 같이 먹을 사람?"},
		{"korean over limit", strings.Repeat("가", 40), strings.Repeat("가", 30) + "..."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := messagePreview(tt.content); got != tt.want {
				t.Errorf("messagePreview(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
