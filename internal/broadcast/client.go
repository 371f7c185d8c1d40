package broadcast

import (
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	// Tamanho da fila de envio por observador; estourar a fila derruba a
	// conexão em vez de bloquear o fan-out
	sendBufferSize = 16
)

// Client é um observador conectado. A goroutine de leitura interpreta as
// requisições do observador e a de escrita serializa tudo que sai pela
// conexão, inclusive o fan-out vindo do hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan ServerMessage
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan ServerMessage, sendBufferSize),
	}
}

func (c *Client) readPump() {
	defer c.detach()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("Conexão de observador encerrada com erro")
			}
			return
		}

		var message ClientMessage
		if err := json.Unmarshal(data, &message); err != nil {
			c.reply(errorMessage("Mensagem inválida", err.Error()))
			continue
		}

		c.handle(message)
	}
}

// detach entrega a desconexão ao hub quando o leitor retorna. Se o hub já
// encerrou, a entrega é abandonada em vez de bloquear para sempre.
func (c *Client) detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	c.conn.Close()
}

// handle responde uma requisição do observador consultando apenas o snapshot
// corrente. Falhas são respondidas só para este observador.
func (c *Client) handle(message ClientMessage) {
	switch message.Action {
	case ActionRefresh:
		// Cutuca o agendador e responde com o snapshot corrente, que pode
		// ser anterior ou posterior à conclusão do recálculo pedido
		c.hub.refresher.Trigger()
		snapshot, stats := c.hub.rankingService.Current()
		c.reply(ServerMessage{
			Type:    MessageTypeRefresh,
			Payload: RankingPayload{Ranking: snapshot.Entries, Stats: stats},
		})

	case ActionCandidate:
		if message.CandidateID == "" {
			c.reply(errorMessage("Requisição inválida", "candidateId é obrigatório"))
			return
		}

		rank := c.hub.rankingService.CandidateRank(message.CandidateID)
		c.reply(ServerMessage{
			Type: MessageTypeCandidate,
			Payload: CandidatePayload{
				CandidateID: rank.CandidateID,
				Entry:       rank.Entry,
				Total:       rank.Total,
			},
		})

	case ActionTop:
		if message.Limit <= 0 {
			c.reply(errorMessage("Requisição inválida", "limit deve ser maior que zero"))
			return
		}

		entries := c.hub.rankingService.TopN(message.Limit)
		c.reply(ServerMessage{
			Type:    MessageTypeTop,
			Payload: TopPayload{Limit: message.Limit, Entries: entries},
		})

	case ActionCountry:
		if message.Country == "" {
			c.reply(errorMessage("Requisição inválida", "country é obrigatório"))
			return
		}

		limit := message.Limit
		if limit <= 0 {
			limit = defaultRankingLimit
		}

		entries := c.hub.rankingService.RankingByCountry(message.Country, limit)
		c.reply(ServerMessage{
			Type:    MessageTypeCountry,
			Payload: CountryPayload{Country: message.Country, Entries: entries},
		})

	default:
		c.reply(errorMessage("Ação desconhecida", message.Action))
	}
}

// reply enfileira uma resposta para este observador. Com a fila cheia a
// mensagem é descartada; a conexão será derrubada pelo hub no próximo fan-out.
func (c *Client) reply(message ServerMessage) {
	select {
	case c.send <- message:
	default:
		logrus.Warn("Fila de envio cheia, resposta ao observador descartada")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// O hub fechou a fila deste observador
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				logrus.WithError(err).Error("Erro ao serializar mensagem para observador")
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.done:
			// No encerramento a fila não é fechada; sair pelo sinal do hub
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func errorMessage(message, detail string) ServerMessage {
	return ServerMessage{
		Type:    MessageTypeError,
		Payload: ErrorPayload{Message: message, Detail: detail},
	}
}
