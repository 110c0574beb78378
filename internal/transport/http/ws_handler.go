package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"own-game-service/internal/app"
	"own-game-service/internal/domain"
)

var (
	errMissingName   = errors.New("enter a player name")
	errMissingPlayer = errors.New("choose a player")
)

type WSHandler struct {
	service      *app.GameService
	defaultBoard string
	upgrader     websocket.Upgrader
}

func NewWSHandler(service *app.GameService, defaultBoard string) *WSHandler {
	return &WSHandler{
		service:      service,
		defaultBoard: defaultBoard,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type playerPayload struct {
	Name string `json:"name"`
}

type selectPayload struct {
	Round string `json:"round"`
	Topic string `json:"topic"`
	Index int    `json:"index"`
}

type resolvePayload struct {
	Player  string `json:"player"`
	Correct bool   `json:"correct"`
}

type screenPayload struct {
	Screen domain.Screen `json:"screen"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeHost upgrades the host console connection. The host sees answers and
// drives the game with commands.
func (h *WSHandler) ServeHost(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

// ServeDisplay upgrades a player display connection. Displays only receive
// redacted snapshots; anything they send is ignored.
func (h *WSHandler) ServeDisplay(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, host bool) {
	boardID := r.URL.Query().Get("boardId")
	if boardID == "" {
		boardID = h.defaultBoard
	}
	if boardID == "" {
		http.Error(w, "missing boardId", http.StatusBadRequest)
		return
	}

	game, err := h.service.Open(r.Context(), boardID)
	if errors.Is(err, domain.ErrBoardNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("open board %s: %v", boardID, err)
		http.Error(w, "could not open board", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	role := "display"
	if host {
		role = "host"
	}
	log.Printf("ws %s connected: board=%s role=%s", connID, boardID, role)
	defer log.Printf("ws %s disconnected", connID)

	updates, cancel := game.Updates()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws %s write error: %v", connID, err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				if !host {
					update = update.ForPlayers()
				}
				select {
				case send <- outboundMessage[any]{Type: "snapshot", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !host {
			continue
		}
		if err := applyCommand(game, inbound); err != nil {
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// applyCommand maps a host command onto the game. Only malformed input is an
// error; invalid moves are silently ignored by the game itself.
func applyCommand(game *app.Game, msg inboundMessage) error {
	switch msg.Type {
	case "addPlayer":
		var p playerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if strings.TrimSpace(p.Name) == "" {
			return errMissingName
		}
		game.AddPlayer(p.Name)
	case "removePlayer":
		var p playerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Name == "" {
			return errMissingPlayer
		}
		game.RemovePlayer(p.Name)
	case "select":
		var p selectPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Round == "" {
			p.Round = game.CurrentRound()
		}
		game.SelectQuestion(p.Round, p.Topic, p.Index)
	case "resolve":
		var p resolvePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Player == "" {
			return errMissingPlayer
		}
		game.ResolveAnswer(p.Player, p.Correct)
	case "clear":
		game.ClearActiveQuestion()
	case "nextRound":
		game.AdvanceRound()
	case "prevRound":
		game.RetreatRound()
	case "screen":
		var p screenPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		game.SetScreen(p.Screen)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, msg.Type)
	}
	return nil
}

func decode(msg inboundMessage, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload", msg.Type)
	}
	return nil
}
