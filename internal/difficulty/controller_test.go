package difficulty

import (
	"testing"

	"placementprep/interview/internal/models"
)

func TestNext_Transitions(t *testing.T) {
	cases := []struct {
		name    string
		current string
		scores  []int
		want    string
	}{
		{"insufficient history keeps level", models.DifficultyEasy, []int{95, 96}, models.DifficultyEasy},
		{"no history keeps level", models.DifficultyMedium, nil, models.DifficultyMedium},

		{"easy promotes on mean >= 90", models.DifficultyEasy, []int{95, 96, 94}, models.DifficultyMedium},
		{"easy holds below mean 90 without streak", models.DifficultyEasy, []int{85, 84, 82}, models.DifficultyEasy},
		{"easy promotes on all-3 above 85", models.DifficultyEasy, []int{60, 60, 86, 87, 88}, models.DifficultyMedium},

		{"medium promotes on mean >= 80", models.DifficultyMedium, []int{81, 86, 79}, models.DifficultyHard},
		{"medium promotes on all-3 above 85", models.DifficultyMedium, []int{86, 90, 88}, models.DifficultyHard},
		{"medium demotes on mean <= 45", models.DifficultyMedium, []int{40, 45, 48}, models.DifficultyEasy},
		{"medium demotes on all-3 below 50", models.DifficultyMedium, []int{70, 49, 48, 47}, models.DifficultyEasy},
		{"medium holds in the middle band", models.DifficultyMedium, []int{60, 65, 70}, models.DifficultyMedium},

		{"hard demotes on mean <= 55", models.DifficultyHard, []int{40, 42, 38}, models.DifficultyMedium},
		{"hard holds above the demotion band", models.DifficultyHard, []int{60, 58, 62}, models.DifficultyHard},
		{"hard cannot promote", models.DifficultyHard, []int{99, 99, 99}, models.DifficultyHard},

		// Boundary semantics: inclusive for means, strict for streaks.
		{"easy promotes at mean exactly 90", models.DifficultyEasy, []int{90, 90, 90}, models.DifficultyMedium},
		{"streak of exactly 85 does not promote", models.DifficultyMedium, []int{85, 85, 85}, models.DifficultyMedium},
		{"hard demotes at mean exactly 55", models.DifficultyHard, []int{55, 55, 55}, models.DifficultyMedium},
		{"streak of exactly 50 does not demote", models.DifficultyMedium, []int{50, 50, 50}, models.DifficultyMedium},

		// Only the trailing window of five counts.
		{"old scores fall out of the window", models.DifficultyEasy, []int{10, 10, 95, 96, 94, 93, 92}, models.DifficultyMedium},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.current, tc.scores); got != tc.want {
				t.Fatalf("Next(%s, %v): expected %s, got %s", tc.current, tc.scores, tc.want, got)
			}
		})
	}
}

func TestNext_NeverJumpsTwoLevels(t *testing.T) {
	extremes := [][]int{{0, 0, 0}, {100, 100, 100}, {0, 100, 0, 100, 0}}
	for _, scores := range extremes {
		if got := Next(models.DifficultyEasy, scores); got == models.DifficultyHard {
			t.Fatalf("easy jumped straight to hard on %v", scores)
		}
		if got := Next(models.DifficultyHard, scores); got == models.DifficultyEasy {
			t.Fatalf("hard jumped straight to easy on %v", scores)
		}
	}
}

func TestNext_IsPure(t *testing.T) {
	scores := []int{81, 86, 79}
	first := Next(models.DifficultyMedium, scores)
	second := Next(models.DifficultyMedium, scores)
	if first != second {
		t.Fatalf("identical inputs produced %s then %s", first, second)
	}
	// The input slice must not be mutated.
	if scores[0] != 81 || scores[1] != 86 || scores[2] != 79 {
		t.Fatalf("input slice was mutated: %v", scores)
	}
}
