package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/bidEngine/internal/bid/domain"
	"github.com/cristianortiz/bidEngine/internal/shared/logger"
	ws "github.com/cristianortiz/bidEngine/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// ChatWSHandler routes inbound chat frames through the shared hub and pushes
// assignment notifications to the parties involved. It implements
// domain.AssignListener so the bid module never imports this package.
type ChatWSHandler struct {
	hub *ws.Hub
}

func NewChatWSHandler(hub *ws.Hub) *ChatWSHandler {
	return &ChatWSHandler{hub: hub}
}

// ListenForMessages consumes the hub inbound channel until ctx is cancelled.
// Run it in its own goroutine.
func (h *ChatWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("Chat handler listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("Chat handler shutting down")
			return
		case msg, ok := <-h.hub.InboundMessages:
			if !ok {
				return
			}
			h.processMessage(msg)
		}
	}
}

func (h *ChatWSHandler) processMessage(msg *ws.ClientMessage) {
	var base BaseMessage
	if err := json.Unmarshal(msg.Data, &base); err != nil {
		log.Warn("Discarding malformed frame",
			zap.String("userID", msg.Client.UserID),
			zap.Error(err),
		)
		h.sendError(msg.Client, "malformed message")
		return
	}

	switch base.Type {
	case TypeClientChat:
		h.handleClientChat(msg)
	default:
		log.Warn("Unknown message type",
			zap.String("type", string(base.Type)),
			zap.String("userID", msg.Client.UserID),
		)
		h.sendError(msg.Client, "unknown message type")
	}
}

func (h *ChatWSHandler) handleClientChat(msg *ws.ClientMessage) {
	var chat ClientChatMessage
	if err := json.Unmarshal(msg.Data, &chat); err != nil {
		h.sendError(msg.Client, "malformed chat message")
		return
	}
	if chat.Payload.Receiver == uuid.Nil || chat.Payload.Message == "" {
		h.sendError(msg.Client, "receiver and message are required")
		return
	}

	sender, err := uuid.Parse(msg.Client.UserID)
	if err != nil {
		h.sendError(msg.Client, "invalid sender identity")
		return
	}

	out := ServerChatMessage{Type: TypeServerChat}
	out.Payload.Sender = sender
	out.Payload.Message = chat.Payload.Message

	data, err := json.Marshal(out)
	if err != nil {
		log.Error("Failed to marshal chat message", zap.Error(err))
		return
	}

	// if the receiver has no live connections the message is dropped; the
	// relay is best effort and keeps no history
	h.hub.SendToUser(chat.Payload.Receiver.String(), data)
	log.Debug("Chat message relayed",
		zap.String("sender", sender.String()),
		zap.String("receiver", chat.Payload.Receiver.String()),
	)
}

func (h *ChatWSHandler) sendError(client *ws.Client, reason string) {
	out := ServerErrorMessage{Type: TypeServerError}
	out.Payload.Error = reason
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	h.hub.SendToUser(client.UserID, data)
}

// BidAssigned notifies the requester and the winning vendor that the bid was
// assigned. Satisfies domain.AssignListener.
func (h *ChatWSHandler) BidAssigned(bid *domain.Bid) {
	if bid.AssignedTo == nil {
		return
	}

	out := ServerBidAssignedMessage{Type: TypeServerBidAssigned}
	out.Payload.BidID = bid.ID
	out.Payload.RequesterID = bid.RequesterID
	out.Payload.VendorID = *bid.AssignedTo
	out.Payload.Category = bid.Category

	data, err := json.Marshal(out)
	if err != nil {
		log.Error("Failed to marshal assignment notification", zap.Error(err))
		return
	}

	h.hub.SendToUser(bid.RequesterID.String(), data)
	h.hub.SendToUser(bid.AssignedTo.String(), data)
	log.Info("Assignment notification queued",
		zap.String("bidID", bid.ID.String()),
		zap.String("vendorID", bid.AssignedTo.String()),
	)
}

// RegisterRoutes mounts the websocket upgrade endpoint
func (h *ChatWSHandler) RegisterRoutes(ctx context.Context, app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/chat", websocket.New(func(conn *websocket.Conn) {
		userID, err := uuid.Parse(conn.Query("userId"))
		if err != nil {
			log.Warn("Rejecting ws connection without valid userId")
			_ = conn.Close()
			return
		}

		client := &ws.Client{
			Hub:    h.hub,
			Conn:   conn,
			Send:   make(chan []byte, 64),
			UserID: userID.String(),
			ID:     uuid.NewString(),
		}

		h.hub.RegisterClient(client)
		go client.WritePump(ctx)
		// ReadPump blocks until the connection drops, keeping the fiber
		// websocket handler alive for the lifetime of the connection
		client.ReadPump(ctx)
	}))
}
