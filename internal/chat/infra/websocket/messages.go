package websocket

import "github.com/google/uuid"

// MessageType discriminates the JSON frames exchanged over the chat relay
type MessageType string

const (
	// sent by clients
	TypeClientChat MessageType = "client_chat"

	// sent by the server
	TypeServerChat        MessageType = "server_chat"
	TypeServerError       MessageType = "server_error"
	TypeServerBidAssigned MessageType = "server_bid_assigned"
)

// BaseMessage is decoded first to find out the frame type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientChatMessage is a direct message from one user to another
type ClientChatMessage struct {
	Type    MessageType `json:"type"`
	Payload struct {
		Receiver uuid.UUID `json:"receiver"`
		Message  string    `json:"message"`
	} `json:"payload"`
}

// ServerChatMessage relays a chat message to the receiver's connections
type ServerChatMessage struct {
	Type    MessageType `json:"type"`
	Payload struct {
		Sender  uuid.UUID `json:"sender"`
		Message string    `json:"message"`
	} `json:"payload"`
}

// ServerErrorMessage reports a malformed or undeliverable frame to its sender
type ServerErrorMessage struct {
	Type    MessageType `json:"type"`
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

// ServerBidAssignedMessage tells both parties a bid was assigned
type ServerBidAssignedMessage struct {
	Type    MessageType `json:"type"`
	Payload struct {
		BidID       uuid.UUID `json:"bidId"`
		RequesterID uuid.UUID `json:"requesterId"`
		VendorID    uuid.UUID `json:"vendorId"`
		Category    string    `json:"category"`
	} `json:"payload"`
}
