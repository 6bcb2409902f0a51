package tutor

import (
	"fmt"
	"strings"
)

// Levels accepted by WeeklyPlan.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// WeeklyPlan is a four-week topic schedule.
type WeeklyPlan struct {
	Level string     `json:"level"`
	Weeks [][]string `json:"weeks"`
}

var coreTopics = []string{
	"Arrays", "Linked Lists", "Stacks & Queues", "Hashing", "Sorting", "Two Pointers",
}

var intermediateTopics = []string{
	"Binary Search", "Trees", "Heaps", "Graphs Basics",
}

var advancedTopics = []string{
	"DP", "Advanced Graphs", "Tries", "Greedy vs DP",
}

// WeeklyPlan builds a four-week study plan for the level. An empty
// level defaults to beginner.
func (s *Service) WeeklyPlan(level string) (*WeeklyPlan, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = LevelBeginner
	}

	topics := append([]string(nil), coreTopics...)
	switch level {
	case LevelBeginner:
	case LevelIntermediate:
		topics = append(topics, intermediateTopics...)
	case LevelAdvanced:
		topics = append(topics, advancedTopics...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	weeks := make([][]string, 4)
	for i := range weeks {
		lo := i * 4
		hi := lo + 4
		if lo > len(topics) {
			lo = len(topics)
		}
		if hi > len(topics) {
			hi = len(topics)
		}
		weeks[i] = topics[lo:hi]
	}

	return &WeeklyPlan{Level: level, Weeks: weeks}, nil
}
