package handler

import (
	"net/http"

	"github.com/vfg2006/contest-ranking-api/internal/broadcast"
)

// LiveRanking aceita a conexão websocket de um observador do ranking
func LiveRanking(hub *broadcast.Hub) http.HandlerFunc {
	return hub.ServeWS()
}
