// Package ordering keeps sibling records in a dense, rank-ordered sequence.
//
// A partition is a set of siblings sharing one parent: a user's boards, a
// user's bookmarked boards, or a section's tasks. Each member holds a rank in
// 0..n-1. Lists are presented highest rank first, so a new or top-moved item
// receives the highest rank.
//
// Display order and stored rank are related by a single rule: the item shown
// at index i of an n-item list holds rank n-1-i (see Assign). Renumber
// restores density after a member leaves a partition.
package ordering
