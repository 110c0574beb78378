package domain

import (
	"errors"
	"testing"
)

func TestBoardValidate(t *testing.T) {
	valid := Board{ID: "b", Rounds: []Round{
		{Name: "Round 1", Topics: []Topic{{Name: "T", Questions: []Question{{Prompt: "Q", Answer: "A", Value: 100}}}}},
	}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid board, got %v", err)
	}

	cases := map[string]Board{
		"missing id":      {Rounds: valid.Rounds},
		"no rounds":       {ID: "b"},
		"duplicate round": {ID: "b", Rounds: []Round{valid.Rounds[0], valid.Rounds[0]}},
		"no topics":       {ID: "b", Rounds: []Round{{Name: "Round 1"}}},
		"empty topic":     {ID: "b", Rounds: []Round{{Name: "Round 1", Topics: []Topic{{Name: "T"}}}}},
	}
	for name, b := range cases {
		if err := b.Validate(); !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("%s: expected ErrInvalidBoard, got %v", name, err)
		}
	}
}

func TestSnapshotForPlayersHidesAnswers(t *testing.T) {
	snap := Snapshot{
		Rounds: []Round{{Name: "Round 1", Topics: []Topic{{Name: "T", Questions: []Question{
			{Prompt: "Q", Answer: "A", Value: 100, Used: true, Wildcard: true},
		}}}}},
		Active: &ActiveQuestion{Prompt: "Q", Answer: "A", Reveal: RevealIncorrect},
	}

	view := snap.ForPlayers()
	q := view.Rounds[0].Topics[0].Questions[0]
	if q.Answer != "" || q.Prompt != "" || q.Wildcard || !q.Used || q.Value != 100 {
		t.Fatalf("unexpected board cell: %+v", q)
	}
	if view.Active.Answer != "" || view.Active.Prompt != "Q" {
		t.Fatalf("unexpected active view: %+v", view.Active)
	}
	if snap.Active.Answer != "A" || snap.Rounds[0].Topics[0].Questions[0].Answer != "A" {
		t.Fatalf("ForPlayers mutated the host snapshot")
	}

	snap.Active.Reveal = RevealCorrect
	if got := snap.ForPlayers().Active.Answer; got != "A" {
		t.Fatalf("expected revealed answer, got %q", got)
	}
}
