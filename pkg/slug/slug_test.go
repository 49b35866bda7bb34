// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hikawa/tankobon/pkg/slug"
)

/*
TestFrom checks the slug transformation pipeline across realistic titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "Berserk", "berserk"},
		{"spaces_to_hyphens", "Chainsaw Man", "chainsaw-man"},
		{"punctuation_stripped", "Frieren: Beyond Journey's End", "frieren-beyond-journey-s-end"},
		{"accents_removed", "Pokémon Adventures", "pokemon-adventures"},
		{"collapses_hyphens", "One -- Punch  Man", "one-punch-man"},
		{"trims_edges", "...Vagabond...", "vagabond"},
		{"digits_kept", "20th Century Boys", "20th-century-boys"},
		{"empty_input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
