// Package broadcast distribui snapshots do ranking para os observadores
// conectados via websocket e responde as consultas pontuais de cada um.
package broadcast

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/contest-ranking-api/internal/domain"
	"github.com/vfg2006/contest-ranking-api/internal/usecases/ranking"
)

// Limite padrão das consultas que não informam limit
const defaultRankingLimit = 100

// Refresher repassa ao agendador o pedido de recálculo de um observador.
type Refresher interface {
	Trigger()
}

// Hub mantém o conjunto de observadores conectados. Todas as mutações do
// conjunto e todo fan-out passam pelo laço de Run, em uma única goroutine,
// o que garante que cada observador recebe o "initial" antes de qualquer
// "update" e que os updates chegam na ordem dos recálculos.
type Hub struct {
	rankingService ranking.RankingService
	refresher      Refresher
	upgrader       websocket.Upgrader

	register   chan *Client
	unregister chan *Client
	broadcast  chan RankingPayload
	done       chan struct{}

	clients map[*Client]struct{}
}

func NewHub(rankingService ranking.RankingService, refresher Refresher) *Hub {
	return &Hub{
		rankingService: rankingService,
		refresher:      refresher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// TODO restringir origens quando o domínio do frontend estiver fechado
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan RankingPayload, 8),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processa registros, desconexões e fan-out até o contexto ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Sinaliza o encerramento antes de derrubar as conexões:
			// desconexões tardias não podem bloquear em um hub que já
			// parou de atender
			close(h.done)
			for client := range h.clients {
				client.conn.Close()
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			logrus.WithField("observers", len(h.clients)).Debug("Observador conectado ao ranking")

		case client := <-h.unregister:
			// A fila de envio só é fechada aqui, quando o leitor do
			// observador já retornou: nenhuma resposta em voo pode
			// alcançar uma fila fechada
			delete(h.clients, client)
			close(client.send)

		case payload := <-h.broadcast:
			message := ServerMessage{Type: MessageTypeUpdate, Payload: payload}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Observador lento não pode atrasar o fan-out
					logrus.Warn("Observador com fila cheia desconectado do ranking")
					h.evict(client)
				}
			}
		}
	}
}

// BroadcastUpdate publica o resultado de um recálculo para todos os
// observadores. Chamado pelo agendador após cada passada bem-sucedida.
func (h *Hub) BroadcastUpdate(snapshot *domain.RankingSnapshot, stats *domain.GlobalStats) {
	h.broadcast <- RankingPayload{Ranking: snapshot.Entries, Stats: stats}
}

// ServeWS aceita uma conexão de observador. O snapshot corrente entra na
// fila de envio antes do registro no hub, então o "initial" sempre precede
// qualquer "update".
func (h *Hub) ServeWS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("Erro ao aceitar conexão websocket")
			return
		}

		client := newClient(h, conn)

		snapshot, stats := h.rankingService.Current()
		client.send <- ServerMessage{
			Type:    MessageTypeInitial,
			Payload: RankingPayload{Ranking: snapshot.Entries, Stats: stats},
		}

		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// evict remove o observador do fan-out e derruba a conexão. A fila de envio
// fica aberta: o leitor do observador ainda pode estar respondendo uma
// requisição em voo. Com a conexão fechada o leitor retorna e se desconecta
// pelo caminho normal, que então fecha a fila.
func (h *Hub) evict(client *Client) {
	delete(h.clients, client)
	client.conn.Close()
}
