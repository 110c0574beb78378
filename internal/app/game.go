package app

import (
	"strings"
	"sync"
	"time"

	"own-game-service/internal/domain"
)

const (
	// DefaultRevealDelay is how long a missed wildcard shows "incorrect"
	// before its answer is revealed.
	DefaultRevealDelay = 3 * time.Second
	// DefaultFinishDelay is how long a revealed answer stays on screen before
	// the display returns to the board.
	DefaultFinishDelay = 3 * time.Second
)

// GameOptions tunes deferred transitions. Zero values pick the defaults.
type GameOptions struct {
	RevealDelay time.Duration
	FinishDelay time.Duration
	Scheduler   Scheduler
	Now         func() time.Time
}

// Game owns the state of one board being played. Every mutation goes through
// its methods and ends by publishing a Snapshot to all subscribers.
//
// Subscriber callbacks run synchronously on the mutating goroutine and must
// not call back into the Game.
type Game struct {
	revealDelay time.Duration
	finishDelay time.Duration
	sched       Scheduler
	now         func() time.Time

	// publishMu serializes mutate-then-publish so observers see snapshots in
	// version order.
	publishMu sync.Mutex

	mu            sync.RWMutex
	board         domain.Board
	round         int
	active        *domain.ActiveQuestion
	generation    uint64
	revealPending bool
	pending       Task
	order         []string
	scores        map[string]int
	screen        domain.Screen
	version       uint64
	subscribers   map[uint64]func(domain.Snapshot)
	nextSub       uint64
}

// NewGame starts a game over a private copy of board. The board must pass
// domain.Board.Validate.
func NewGame(board domain.Board, opts GameOptions) *Game {
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.FinishDelay <= 0 {
		opts.FinishDelay = DefaultFinishDelay
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ClockScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Game{
		revealDelay: opts.RevealDelay,
		finishDelay: opts.FinishDelay,
		sched:       opts.Scheduler,
		now:         opts.Now,
		board:       board.Clone(),
		scores:      make(map[string]int),
		screen:      domain.ScreenWelcome,
		subscribers: make(map[uint64]func(domain.Snapshot)),
	}
}

// AddPlayer registers name with a zero score. Empty or known names are ignored.
func (g *Game) AddPlayer(name string) {
	name = strings.TrimSpace(name)
	g.mutate(func() bool {
		if name == "" {
			return false
		}
		if _, ok := g.scores[name]; ok {
			return false
		}
		g.scores[name] = 0
		g.order = append(g.order, name)
		return true
	})
}

// RemovePlayer drops name and its score.
func (g *Game) RemovePlayer(name string) {
	name = strings.TrimSpace(name)
	g.mutate(func() bool {
		if _, ok := g.scores[name]; !ok {
			return false
		}
		delete(g.scores, name)
		for i, n := range g.order {
			if n == name {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
		return true
	})
}

// SelectQuestion puts a question on screen. Unknown coordinates and used
// questions are ignored.
func (g *Game) SelectQuestion(round, topic string, index int) {
	g.mutate(func() bool {
		q, ok := g.lookupLocked(round, topic, index)
		if !ok || q.Used {
			return false
		}
		// A wildcard awaiting its reveal keeps its cell until the reveal lands.
		if g.revealPending && g.isActiveLocked(round, topic, index) {
			return false
		}
		g.cancelPendingLocked()
		g.generation++
		g.active = &domain.ActiveQuestion{
			Round:    round,
			Topic:    topic,
			Index:    index,
			Prompt:   q.Prompt,
			Answer:   q.Answer,
			Value:    q.Value,
			Wildcard: q.Wildcard,
			Reveal:   domain.RevealHidden,
		}
		g.screen = domain.ScreenQuestion
		return true
	})
}

// ResolveAnswer judges player's answer to the active question.
//
// A correct answer scores the question once and marks it used. A missed
// wildcard shows "incorrect" and reveals the answer after the reveal delay
// with no score. A missed regular question stays active and can be judged
// again.
func (g *Game) ResolveAnswer(player string, correct bool) {
	player = strings.TrimSpace(player)
	g.mutate(func() bool {
		if _, ok := g.scores[player]; !ok || g.active == nil {
			return false
		}
		if g.active.Reveal == domain.RevealCorrect || g.revealPending {
			return false
		}

		switch {
		case correct:
			g.scores[player] += g.active.Value
			g.active.Reveal = domain.RevealCorrect
			g.markUsedLocked()
			g.scheduleLocked(g.finishDelay, g.finish)
		case g.active.Wildcard:
			g.active.Reveal = domain.RevealIncorrect
			g.revealPending = true
			g.scheduleLocked(g.revealDelay, g.revealWildcard)
		default:
			g.active.Reveal = domain.RevealIncorrect
		}
		return true
	})
}

// ClearActiveQuestion takes the active question off screen.
func (g *Game) ClearActiveQuestion() {
	g.mutate(func() bool {
		g.cancelPendingLocked()
		g.active = nil
		return true
	})
}

// AdvanceRound moves to the next round; a no-op on the final round.
func (g *Game) AdvanceRound() {
	g.mutate(func() bool {
		if g.round >= len(g.board.Rounds)-1 {
			return false
		}
		g.round++
		g.resetForRoundLocked()
		return true
	})
}

// RetreatRound moves to the previous round; a no-op on the first round.
func (g *Game) RetreatRound() {
	g.mutate(func() bool {
		if g.round == 0 {
			return false
		}
		g.round--
		g.resetForRoundLocked()
		return true
	})
}

// SetScreen switches the page shown on the player display.
func (g *Game) SetScreen(screen domain.Screen) {
	g.mutate(func() bool {
		if !screen.Valid() || g.screen == screen {
			return false
		}
		g.screen = screen
		return true
	})
}

// IsRoundComplete reports whether every question of the named round is used.
func (g *Game) IsRoundComplete(round string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i := range g.board.Rounds {
		if g.board.Rounds[i].Name == round {
			return roundComplete(g.board.Rounds[i])
		}
	}
	return false
}

// IsGameOver reports whether the final round is current and complete.
func (g *Game) IsGameOver() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gameOverLocked()
}

// CurrentRound returns the name of the current round.
func (g *Game) CurrentRound() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Rounds[g.round].Name
}

// Snapshot returns the current state.
func (g *Game) Snapshot() domain.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned cancel func unregisters it.
func (g *Game) Subscribe(fn func(domain.Snapshot)) func() {
	g.mu.Lock()
	g.nextSub++
	id := g.nextSub
	g.subscribers[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

// Updates returns a channel fed with the current snapshot followed by every
// later one. A slow reader only ever misses intermediate snapshots, never the
// latest. The caller must invoke cancel to release the channel.
func (g *Game) Updates() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	g.publishMu.Lock()
	ch <- g.Snapshot()
	unsubscribe := g.Subscribe(func(s domain.Snapshot) {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	})
	g.publishMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.publishMu.Lock()
			unsubscribe()
			close(ch)
			g.publishMu.Unlock()
		})
	}
	return ch, cancel
}

// Close stops any pending deferred transition.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Game) mutate(fn func() bool) {
	g.publishMu.Lock()
	defer g.publishMu.Unlock()

	g.mu.Lock()
	if !fn() {
		g.mu.Unlock()
		return
	}
	g.version++
	snap := g.snapshotLocked()
	subs := make([]func(domain.Snapshot), 0, len(g.subscribers))
	for _, sub := range g.subscribers {
		subs = append(subs, sub)
	}
	g.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// scheduleLocked replaces the pending task with fn, bound to the current
// active question generation.
func (g *Game) scheduleLocked(d time.Duration, fn func(gen uint64)) {
	if g.pending != nil {
		g.pending.Stop()
	}
	gen := g.generation
	g.pending = g.sched.AfterFunc(d, func() { fn(gen) })
}

// cancelPendingLocked stops the pending task. A wildcard whose reveal was
// still pending is settled as used without score.
func (g *Game) cancelPendingLocked() {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
	if g.revealPending {
		g.revealPending = false
		if g.active != nil {
			g.markUsedLocked()
		}
	}
}

func (g *Game) revealWildcard(gen uint64) {
	g.mutate(func() bool {
		if g.active == nil || g.generation != gen || !g.revealPending {
			return false
		}
		g.revealPending = false
		g.active.Reveal = domain.RevealCorrect
		g.markUsedLocked()
		g.pending = nil
		g.scheduleLocked(g.finishDelay, g.finish)
		return true
	})
}

func (g *Game) finish(gen uint64) {
	g.mutate(func() bool {
		if g.active == nil || g.generation != gen {
			return false
		}
		g.pending = nil
		g.active = nil
		g.screen = domain.ScreenBoard
		return true
	})
}

func (g *Game) resetForRoundLocked() {
	g.cancelPendingLocked()
	g.active = nil
	g.screen = domain.ScreenBoard
}

func (g *Game) markUsedLocked() {
	a := g.active
	for ri := range g.board.Rounds {
		r := &g.board.Rounds[ri]
		if r.Name != a.Round {
			continue
		}
		for ti := range r.Topics {
			t := &r.Topics[ti]
			if t.Name == a.Topic && a.Index >= 0 && a.Index < len(t.Questions) {
				t.Questions[a.Index].Used = true
				return
			}
		}
	}
}

func (g *Game) isActiveLocked(round, topic string, index int) bool {
	a := g.active
	return a != nil && a.Round == round && a.Topic == topic && a.Index == index
}

func (g *Game) lookupLocked(round, topic string, index int) (domain.Question, bool) {
	for _, r := range g.board.Rounds {
		if r.Name != round {
			continue
		}
		for _, t := range r.Topics {
			if t.Name != topic {
				continue
			}
			if index < 0 || index >= len(t.Questions) {
				return domain.Question{}, false
			}
			return t.Questions[index], true
		}
	}
	return domain.Question{}, false
}

func (g *Game) gameOverLocked() bool {
	last := len(g.board.Rounds) - 1
	return g.round == last && roundComplete(g.board.Rounds[last])
}

func (g *Game) snapshotLocked() domain.Snapshot {
	players := make([]domain.PlayerScore, 0, len(g.order))
	for _, name := range g.order {
		players = append(players, domain.PlayerScore{Name: name, Score: g.scores[name]})
	}

	var active *domain.ActiveQuestion
	if g.active != nil {
		a := *g.active
		active = &a
	}

	return domain.Snapshot{
		BoardID:      g.board.ID,
		Version:      g.version,
		Rounds:       g.board.Clone().Rounds,
		CurrentRound: g.board.Rounds[g.round].Name,
		Active:       active,
		Players:      players,
		Screen:       g.screen,
		GameOver:     g.gameOverLocked(),
		UpdatedAt:    g.now(),
	}
}

func roundComplete(r domain.Round) bool {
	for _, t := range r.Topics {
		for _, q := range t.Questions {
			if !q.Used {
				return false
			}
		}
	}
	return true
}
