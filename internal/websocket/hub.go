package websocket

import (
	"sync"

	"GuandanClient/internal/utils"
)

type HubInterface interface {
	Broadcast(msg OutgoingMessage)
	SendToClient(id string, msg OutgoingMessage)
	Close()
}

// Hub fans engine snapshots out to every connected UI socket.
type Hub struct {
	clients    map[string]*Client // client id -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan OutgoingMessage
	sendOne    chan sendReq
	incoming   chan IncomingMessage
	OnIncoming func(IncomingMessage)
	// OnRegister 新界面连上时调用（用来补发当前快照）
	OnRegister func(id string)
	quit       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
}

type sendReq struct {
	ID      string
	Message OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan OutgoingMessage, 16),
		sendOne:    make(chan sendReq, 16),
		incoming:   make(chan IncomingMessage),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Info.Println("Hub started")
	go h.dispatch()

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			utils.Info.Printf("Hub.register -> %s (当前连接数: %d)", c.ID, len(h.clients))
			h.mu.Unlock()
			if h.OnRegister != nil {
				go h.OnRegister(c.ID)
			}

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				utils.Info.Printf("Hub.unregister -> %s (当前连接数: %d)", c.ID, len(h.clients))
				close(c.Send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				deliver(client, msg)
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if client, ok := h.clients[req.ID]; ok {
				deliver(client, req.Message)
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// dispatch 在独立协程里把界面操作交给 manager
func (h *Hub) dispatch() {
	for {
		select {
		case req := <-h.incoming:
			if h.OnIncoming != nil {
				h.OnIncoming(req)
			}
		case <-h.quit:
			return
		}
	}
}

// 慢界面丢消息，下一份快照会覆盖
func deliver(c *Client, msg OutgoingMessage) {
	select {
	case c.Send <- msg:
	default:
		utils.Error.Printf("Hub: client %s too slow, dropping %s", c.ID, msg.Event)
	}
}

func (h *Hub) Broadcast(msg OutgoingMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.quit:
	}
}

func (h *Hub) SendToClient(id string, msg OutgoingMessage) {
	select {
	case h.sendOne <- sendReq{ID: id, Message: msg}:
	case <-h.quit:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
