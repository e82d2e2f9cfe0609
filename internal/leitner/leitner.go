// Package leitner implements the five-box Leitner spaced-repetition
// schedule used for vocabulary reviews.
package leitner

import "time"

// Box bounds.
const (
	MinBox = 1
	MaxBox = 5
)

// boxIntervalDays maps a box number to the days until the next review.
var boxIntervalDays = map[int]int{
	1: 0,
	2: 1,
	3: 3,
	4: 7,
	5: 14,
}

// fallbackIntervalDays is used for a box outside the 1-5 domain. Unreachable
// as long as callers keep boxes in range.
const fallbackIntervalDays = 7

// Outcome is the result of one review transition.
type Outcome struct {
	NewBox  int
	NextDue time.Time
}

// Schedule returns the next box and due time after a review. A correct
// answer promotes the word one box (capped at MaxBox); a wrong answer
// resets it to box 1 regardless of where it was.
func Schedule(box int, success bool, now time.Time) Outcome {
	newBox := MinBox
	if success {
		newBox = box + 1
		if newBox > MaxBox {
			newBox = MaxBox
		}
	}
	return Outcome{
		NewBox:  newBox,
		NextDue: now.AddDate(0, 0, IntervalDays(newBox)),
	}
}

// IntervalDays returns the review interval for a box.
func IntervalDays(box int) int {
	if days, ok := boxIntervalDays[box]; ok {
		return days
	}
	return fallbackIntervalDays
}
