// Package filter narrows listed cards by their links.
package filter

import "github.com/FirstPrinciplesDevelopment/kanban/internal/model"

// ToSet converts a slice to a set for O(1) membership checks.
func ToSet[T comparable](items []T) map[T]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// HasAll returns true if have contains every id in required.
func HasAll(have []int, required map[int]struct{}) bool {
	if len(required) == 0 {
		return true
	}
	got := ToSet(have)
	for id := range required {
		if _, ok := got[id]; !ok {
			return false
		}
	}
	return true
}

// Cards returns the cards that carry every label in labels and every
// assignee in members, preserving order. Empty sets match everything.
func Cards(cards []*model.Card, labels, members []int) []*model.Card {
	if len(labels) == 0 && len(members) == 0 {
		return cards
	}
	wantLabels, wantMembers := ToSet(labels), ToSet(members)
	out := make([]*model.Card, 0, len(cards))
	for _, c := range cards {
		if HasAll(c.Labels, wantLabels) && HasAll(c.AssignedMembers, wantMembers) {
			out = append(out, c)
		}
	}
	return out
}
