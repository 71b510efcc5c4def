// Package difficulty decides how hard the next interview question should be.
// The controller is a pure function over the current level and the trailing
// score window, so identical inputs always give identical outputs and a
// session's difficulty can never drift nondeterministically.
package difficulty

import (
	"placementprep/interview/internal/models"
)

const (
	// WindowSize is the number of trailing scores considered.
	WindowSize = 5
	// minScores is required before any transition; fewer leaves the level
	// unchanged for startup stability.
	minScores = 3

	promoteFromEasyMean   = 90.0
	promoteFromMediumMean = 80.0
	demoteFromHardMean    = 55.0
	demoteFromMediumMean  = 45.0

	// Streak rules use strict comparisons over the last 3 scores.
	promoteStreakAbove = 85
	demoteStreakBelow  = 50
	streakLen          = 3
)

// Next returns the difficulty for the upcoming question given the current
// level and the trailing window of scores, oldest-to-newest. Only the last
// WindowSize entries count. A single call moves at most one level; thresholds
// at the boundary resolve exactly as written (inclusive for means, strict for
// streaks), and anything outside the bands is "no change".
func Next(current string, scores []int) string {
	if len(scores) > WindowSize {
		scores = scores[len(scores)-WindowSize:]
	}
	if len(scores) < minScores {
		return current
	}

	mean := meanOf(scores)

	switch current {
	case models.DifficultyEasy:
		if mean >= promoteFromEasyMean || streakAbove(scores, promoteStreakAbove) {
			return models.DifficultyMedium
		}
	case models.DifficultyMedium:
		if mean >= promoteFromMediumMean || streakAbove(scores, promoteStreakAbove) {
			return models.DifficultyHard
		}
		if mean <= demoteFromMediumMean || streakBelow(scores, demoteStreakBelow) {
			return models.DifficultyEasy
		}
	case models.DifficultyHard:
		if mean <= demoteFromHardMean || streakBelow(scores, demoteStreakBelow) {
			return models.DifficultyMedium
		}
	}
	return current
}

func meanOf(scores []int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// streakAbove reports whether the last streakLen scores are all strictly
// above the threshold.
func streakAbove(scores []int, threshold int) bool {
	if len(scores) < streakLen {
		return false
	}
	for _, s := range scores[len(scores)-streakLen:] {
		if s <= threshold {
			return false
		}
	}
	return true
}

// streakBelow reports whether the last streakLen scores are all strictly
// below the threshold.
func streakBelow(scores []int, threshold int) bool {
	if len(scores) < streakLen {
		return false
	}
	for _, s := range scores[len(scores)-streakLen:] {
		if s >= threshold {
			return false
		}
	}
	return true
}
