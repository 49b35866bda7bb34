// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hikawa/tankobon/pkg/slice"
)

/*
TestUnique checks order-preserving deduplication.
*/
func TestUnique(t *testing.T) {
	t.Run("removes_duplicates_in_order", func(t *testing.T) {
		got := slice.Unique([]string{"Action", "Drama", "Action", "Fantasy", "Drama"})
		assert.Equal(t, []string{"Action", "Drama", "Fantasy"}, got)
	})

	t.Run("case_sensitive", func(t *testing.T) {
		got := slice.Unique([]string{"Action", "action"})
		assert.Equal(t, []string{"Action", "action"}, got)
	})

	t.Run("empty_input", func(t *testing.T) {
		assert.Empty(t, slice.Unique([]string{}))
	})

	t.Run("ints", func(t *testing.T) {
		assert.Equal(t, []int{3, 1, 2}, slice.Unique([]int{3, 1, 3, 2, 1}))
	})
}

/*
TestMap checks the element transformation helper.
*/
func TestMap(t *testing.T) {
	got := slice.Map([]int{1, 2, 3}, func(v int) int { return v * v })
	assert.Equal(t, []int{1, 4, 9}, got)
}

/*
TestFilter checks predicate-based selection.
*/
func TestFilter(t *testing.T) {
	got := slice.Filter([]int{1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
	assert.Equal(t, []int{2, 4}, got)
}
