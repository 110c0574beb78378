package domain

import (
	"fmt"
	"strings"
	"time"
)

// Question is a single cell on the board.
type Question struct {
	Prompt   string `json:"prompt" yaml:"prompt"`
	Answer   string `json:"answer" yaml:"answer"`
	Value    int    `json:"value" yaml:"value"`
	Used     bool   `json:"used" yaml:"-"`
	Wildcard bool   `json:"wildcard,omitempty" yaml:"wildcard"`
}

// Topic groups questions within a round.
type Topic struct {
	Name      string     `json:"name" yaml:"name"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Round is a named phase of the game. Topic order is display order.
type Round struct {
	Name   string  `json:"name" yaml:"name"`
	Topics []Topic `json:"topics" yaml:"topics"`
}

// Board is the question bank. Rounds are played in slice order and the last
// one is the final round.
type Board struct {
	ID     string  `json:"id" yaml:"id"`
	Rounds []Round `json:"rounds" yaml:"rounds"`
}

// Validate reports whether the board can be played.
func (b Board) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBoard)
	}
	if len(b.Rounds) == 0 {
		return fmt.Errorf("%w: board %s has no rounds", ErrInvalidBoard, b.ID)
	}
	seen := make(map[string]struct{}, len(b.Rounds))
	for _, r := range b.Rounds {
		if r.Name == "" {
			return fmt.Errorf("%w: board %s has an unnamed round", ErrInvalidBoard, b.ID)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: duplicate round %q", ErrInvalidBoard, r.Name)
		}
		seen[r.Name] = struct{}{}
		if len(r.Topics) == 0 {
			return fmt.Errorf("%w: round %q has no topics", ErrInvalidBoard, r.Name)
		}
		topics := make(map[string]struct{}, len(r.Topics))
		for _, t := range r.Topics {
			if _, dup := topics[t.Name]; dup || t.Name == "" {
				return fmt.Errorf("%w: round %q has an unnamed or duplicate topic %q", ErrInvalidBoard, r.Name, t.Name)
			}
			topics[t.Name] = struct{}{}
			if len(t.Questions) == 0 {
				return fmt.Errorf("%w: topic %q in round %q has no questions", ErrInvalidBoard, t.Name, r.Name)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate Used flags freely.
func (b Board) Clone() Board {
	out := Board{ID: b.ID, Rounds: make([]Round, len(b.Rounds))}
	for i, r := range b.Rounds {
		nr := Round{Name: r.Name, Topics: make([]Topic, len(r.Topics))}
		for j, t := range r.Topics {
			nr.Topics[j] = Topic{Name: t.Name, Questions: append([]Question(nil), t.Questions...)}
		}
		out.Rounds[i] = nr
	}
	return out
}

// Reveal is the judging state of the active question.
type Reveal string

const (
	RevealHidden    Reveal = "hidden"
	RevealCorrect   Reveal = "correct"
	RevealIncorrect Reveal = "incorrect"
)

// Screen names the page the player display shows.
type Screen string

const (
	ScreenWelcome  Screen = "welcome"
	ScreenBoard    Screen = "board"
	ScreenQuestion Screen = "question"
	ScreenResults  Screen = "results"
	ScreenCredits  Screen = "credits"
)

// Valid reports whether s is a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenWelcome, ScreenBoard, ScreenQuestion, ScreenResults, ScreenCredits:
		return true
	}
	return false
}

// ActiveQuestion is the question currently on screen.
type ActiveQuestion struct {
	Round    string `json:"round"`
	Topic    string `json:"topic"`
	Index    int    `json:"index"`
	Prompt   string `json:"prompt"`
	Answer   string `json:"answer,omitempty"`
	Value    int    `json:"value"`
	Wildcard bool   `json:"wildcard,omitempty"`
	Reveal   Reveal `json:"reveal"`
}

// PlayerScore is a snapshot-friendly view of a player.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Snapshot is the full read-only view delivered to observers after each change.
type Snapshot struct {
	BoardID      string          `json:"boardId"`
	Version      uint64          `json:"version"`
	Rounds       []Round         `json:"rounds"`
	CurrentRound string          `json:"currentRound"`
	Active       *ActiveQuestion `json:"active,omitempty"`
	Players      []PlayerScore   `json:"players"`
	Screen       Screen          `json:"screen"`
	GameOver     bool            `json:"gameOver"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ForPlayers strips answers the audience must not see yet. The active answer
// stays only once it has been revealed correct.
func (s Snapshot) ForPlayers() Snapshot {
	out := s
	out.Rounds = make([]Round, len(s.Rounds))
	for i, r := range s.Rounds {
		nr := Round{Name: r.Name, Topics: make([]Topic, len(r.Topics))}
		for j, t := range r.Topics {
			qs := make([]Question, len(t.Questions))
			for k, q := range t.Questions {
				qs[k] = Question{Value: q.Value, Used: q.Used}
			}
			nr.Topics[j] = Topic{Name: t.Name, Questions: qs}
		}
		out.Rounds[i] = nr
	}
	if s.Active != nil {
		active := *s.Active
		if active.Reveal != RevealCorrect {
			active.Answer = ""
		}
		out.Active = &active
	}
	return out
}
