package tutor

import (
	"fmt"
	"strings"
)

// InterviewQuestions produces interviewer-style follow-up questions for
// a topic. Output is deterministic so drills are repeatable.
func (s *Service) InterviewQuestions(topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrBlankTopic
	}
	return []string{
		fmt.Sprintf("What is the time complexity of the optimal solution for %s?", topic),
		fmt.Sprintf("Can you describe edge cases for %s?", topic),
		fmt.Sprintf("How would you test your solution for %s?", topic),
	}, nil
}
