package filter

import (
	"testing"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func TestToSetEmpty(t *testing.T) {
	if got := ToSet[int](nil); got != nil {
		t.Errorf("ToSet(nil) = %v, want nil", got)
	}
}

func TestHasAll(t *testing.T) {
	tests := []struct {
		name     string
		have     []int
		required []int
		want     bool
	}{
		{"no requirement", []int{1}, nil, true},
		{"subset", []int{1, 2, 3}, []int{1, 3}, true},
		{"missing one", []int{1, 2}, []int{2, 4}, false},
		{"nothing linked", nil, []int{1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAll(tt.have, ToSet(tt.required)); got != tt.want {
				t.Errorf("HasAll(%v, %v) = %v, want %v", tt.have, tt.required, got, tt.want)
			}
		})
	}
}

func TestCardsKeepsOrder(t *testing.T) {
	cards := []*model.Card{
		{ID: 1, Labels: []int{7}, AssignedMembers: []int{2}},
		{ID: 2, Labels: []int{7, 8}},
		{ID: 3, Labels: []int{7, 8}, AssignedMembers: []int{2}},
	}

	got := Cards(cards, []int{7}, nil)
	if len(got) != 3 {
		t.Fatalf("label 7: got %d cards, want 3", len(got))
	}

	got = Cards(cards, []int{8}, []int{2})
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("label 8 + member 2: got %v, want only card 3", got)
	}

	if got := Cards(cards, nil, nil); len(got) != len(cards) {
		t.Errorf("no filters: got %d cards, want %d", len(got), len(cards))
	}
}
