package handlers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"transportconnect/internal/adapters/persistence/models"
	"transportconnect/internal/adapters/ws"
	"transportconnect/internal/core/services"
	"transportconnect/internal/pkg/pagination"
	"transportconnect/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler handles the websocket endpoint and conversation history
type ChatHandler struct {
	chatService *services.ChatService
	hub         *ws.Hub
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
	}
}

// inboundMessage is what a connected client sends over the socket.
type inboundMessage struct {
	RecipientID uint   `json:"recipient_id"`
	ListingID   uint   `json:"listing_id"`
	Content     string `json:"content"`
}

type socketError struct {
	Error string `json:"error"`
}

// Upgrade rejects plain HTTP requests on the websocket route. Runs before
// the websocket handler so the auth middleware has already set the user.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	// Locals set by fiber are not visible inside the websocket handler
	// unless carried over explicitly
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	c.Locals("wsUser", user)
	return c.Next()
}

// Serve runs one websocket session: register on the hub, pump outbound
// frames, and read inbound chat messages until the peer disconnects.
func (h *ChatHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, ok := conn.Locals("wsUser").(*models.User)
		if !ok {
			conn.Close()
			return
		}

		client := ws.NewClient(user.ID, conn)
		h.hub.AddClient(client)
		defer h.hub.RemoveClient(client)

		go client.WritePump()

		conn.SetReadLimit(4096)
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var in inboundMessage
			if err := json.Unmarshal(data, &in); err != nil {
				h.reply(client, socketError{Error: "Invalid message format"})
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			msg, err := h.chatService.Send(ctx, user, in.RecipientID, in.ListingID, in.Content)
			cancel()
			if err != nil {
				h.reply(client, socketError{Error: chatErrorMessage(err)})
				continue
			}

			// Echo back so the sender sees the stored message with its ID
			h.reply(client, msg)
		}
	})
}

func (h *ChatHandler) reply(client *ws.Client, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Failed to marshal websocket reply: %v", err)
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

func chatErrorMessage(err error) string {
	switch err {
	case services.ErrEmptyMessage:
		return "Message content is empty"
	case services.ErrSelfMessage:
		return "Cannot message yourself"
	case services.ErrUnknownContact:
		return "Recipient not found"
	default:
		return "Failed to send message"
	}
}

// History handles fetching a conversation
// @Summary Conversation history
// @Description List messages exchanged with a user about a listing, oldest first
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param listingId path int true "Listing ID"
// @Param userId path int true "Counterparty user ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /chat/{listingId}/{userId} [get]
func (h *ChatHandler) History(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	listingID, err := parseID(c, "listingId")
	if err != nil {
		return response.BadRequest(c, "Invalid listing ID")
	}
	otherID, err := parseID(c, "userId")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	params := pagination.GetParams(c)

	messages, total, err := h.chatService.History(c.Context(), user, listingID, otherID, params.Offset, params.Limit)
	if err != nil {
		return domainError(c, err)
	}

	return response.Success(c, "Messages retrieved successfully",
		pagination.NewResponse(messages, params, total))
}
