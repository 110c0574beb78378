package cli

import (
	"fmt"

	"own-game-service/internal/domain"
)

// sampleBoard is the built-in board used when neither Postgres nor a board
// file is configured: two regular rounds of two topics and a single-question
// final round.
func sampleBoard() domain.Board {
	return domain.Board{
		ID: "march-8",
		Rounds: []domain.Round{
			{Name: "Round 1", Topics: []domain.Topic{
				sampleTopic("Topic 1", false),
				sampleTopic("Topic 2", true),
			}},
			{Name: "Round 2", Topics: []domain.Topic{
				sampleTopic("Topic 3", false),
				sampleTopic("Topic 4", true),
			}},
			{Name: "Final Round", Topics: []domain.Topic{
				{Name: "Final Topic", Questions: []domain.Question{
					{Prompt: "Final question", Answer: "Final answer", Value: 1000},
				}},
			}},
		},
	}
}

// sampleTopic builds five questions worth 100..500; with wildcard set the
// 300 question is a cat in the bag.
func sampleTopic(name string, wildcard bool) domain.Topic {
	questions := make([]domain.Question, 0, 5)
	for i := 1; i <= 5; i++ {
		answer := "Answer 1"
		if i > 3 {
			answer = "Answer 2"
		}
		questions = append(questions, domain.Question{
			Prompt:   fmt.Sprintf("Question %d", i),
			Answer:   answer,
			Value:    i * 100,
			Wildcard: wildcard && i == 3,
		})
	}
	return domain.Topic{Name: name, Questions: questions}
}
