package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"own-game-service/internal/app"
	redisstore "own-game-service/internal/infra/redis"
)

func TestSampleBoardIsValid(t *testing.T) {
	board := sampleBoard()
	if err := board.Validate(); err != nil {
		t.Fatalf("sample board invalid: %v", err)
	}
	if got := board.Rounds[len(board.Rounds)-1].Name; got != "Final Round" {
		t.Fatalf("expected final round last, got %s", got)
	}
}

func TestBoardValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	data := []byte(`
boards:
  - id: quick
    rounds:
      - name: Only Round
        topics:
          - name: Math
            questions:
              - {prompt: "2 + 2", answer: "4", value: 100}
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"board", "validate", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "quick: 1 rounds, 1 questions") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestSnapshotCommandPrintsPlayerView(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := redisstore.NewGameStore(client, time.Minute)
	game := store.GetOrCreate("march-8", func() *app.Game {
		return app.NewGame(sampleBoard(), app.GameOptions{Scheduler: app.NewManualScheduler()})
	})
	game.AddPlayer("Vika")
	game.SelectQuestion("Round 1", game.Snapshot().Rounds[0].Topics[0].Name, 0)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf("redis:\n  addr: %s\n", mr.Addr())), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "snapshot", "march-8"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `"Vika"`) || !strings.Contains(out.String(), `"question"`) {
		t.Fatalf("unexpected output: %q", out.String())
	}
	answer := sampleBoard().Rounds[0].Topics[0].Questions[0].Answer
	if strings.Contains(out.String(), answer) {
		t.Fatalf("player view leaked the answer %q", answer)
	}
}
