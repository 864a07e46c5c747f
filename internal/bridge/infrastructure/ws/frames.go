package ws

import (
	bridgehttp "github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/http"
	"github.com/turiddu25/cobble-economy/internal/bridge/listener"
	"github.com/turiddu25/cobble-economy/internal/bridge/shop"
)

const (
	TypeEvent   = "event"
	TypeCommand = "command"
	TypeAck     = "ack"
	TypeReply   = "reply"
	TypeResult  = "result"
	TypeMenu    = "menu"
	TypeError   = "error"
)

type commandPayload struct {
	Sender      string   `json:"sender"`
	Permissions []string `json:"permissions"`
	Args        []string `json:"args"`
}

type inboundFrame struct {
	Type      string              `json:"type"`
	RequestID string              `json:"request_id,omitempty"`
	Event     *listener.HostEvent `json:"event,omitempty"`
	Command   *commandPayload     `json:"command,omitempty"`
}

type outboundFrame struct {
	Type      string                     `json:"type"`
	RequestID string                     `json:"request_id,omitempty"`
	Accepted  *bool                      `json:"accepted,omitempty"`
	Reply     string                     `json:"reply,omitempty"`
	Result    *bridgehttp.ResultResponse `json:"result,omitempty"`
	Menu      *shop.Menu                 `json:"menu,omitempty"`
	Error     string                     `json:"error,omitempty"`
}
