package http

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRHandler serves a PNG QR code of a board's display feed, the ws:// or
// wss:// URL of /ws/display. Display clients scan it to find the feed; the
// service itself serves no HTML page.
type QRHandler struct {
	publicURL    string
	defaultBoard string
}

func NewQRHandler(publicURL, defaultBoard string) *QRHandler {
	return &QRHandler{publicURL: strings.TrimSuffix(publicURL, "/"), defaultBoard: defaultBoard}
}

func (h *QRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("boardId")
	if boardID == "" {
		boardID = h.defaultBoard
	}
	if boardID == "" {
		http.Error(w, "missing boardId", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(h.displayURL(r, boardID), qrcode.Medium, 256)
	if err != nil {
		log.Printf("qr encode failed: %v", err)
		http.Error(w, "could not render qr code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (h *QRHandler) displayURL(r *http.Request, boardID string) string {
	base := h.publicURL
	if base == "" {
		base = "http://" + r.Host
	}
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/display?boardId=" + url.QueryEscape(boardID)
}
