package http

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/command"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/listener"
)

const (
	PlayerKey = "player"
	IDKey     = "id"
	PageKey   = "page"
)

type selectRequestBody struct {
	OfferID string `json:"offer_id" binding:"required"`
}

type commandRequestBody struct {
	Sender      string   `json:"sender"`
	Permissions []string `json:"permissions"`
	Args        []string `json:"args"`
}

type BridgeHandler struct {
	listener     EventListener
	accounts     domain.AccountOpener
	shop         ShopController
	commands     CommandExecutor
	results      ResultLookup
	startBalance decimal.Decimal
}

func NewBridgeHandler(
	listener EventListener,
	accounts domain.AccountOpener,
	shop ShopController,
	commands CommandExecutor,
	results ResultLookup,
	startBalance decimal.Decimal,
) *BridgeHandler {
	return &BridgeHandler{
		listener:     listener,
		accounts:     accounts,
		shop:         shop,
		commands:     commands,
		results:      results,
		startBalance: startBalance,
	}
}

func (h *BridgeHandler) IngestEvent(c *gin.Context) {
	var body listener.HostEvent

	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": h.listener.Handle(body)})
}

func (h *BridgeHandler) EnsureAccount(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	if err := h.accounts.EnsureAccount(c.Request.Context(), player, h.startBalance); err != nil {
		handleDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BridgeHandler) OpenShop(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	page := 1
	if raw := c.Query(PageKey); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid page"})
			return
		}
		page = parsed
	}

	c.JSON(http.StatusOK, h.shop.Open(player, page))
}

func (h *BridgeHandler) SelectOffer(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	var body selectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	menu, err := h.shop.Select(c.Request.Context(), player, body.OfferID)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, menu)
}

func (h *BridgeHandler) CloseShop(c *gin.Context) {
	player, ok := playerParam(c)
	if !ok {
		return
	}

	h.shop.Close(player)
	c.Status(http.StatusNoContent)
}

// ExecuteCommand runs a chat command for the sender named in the body. The sender only gets
// the permissions the calling token carries as well.
func (h *BridgeHandler) ExecuteCommand(c *gin.Context) {
	var body commandRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	var sender uuid.UUID
	if body.Sender != "" {
		parsed, err := uuid.Parse(body.Sender)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid sender"})
			return
		}
		sender = parsed
	}

	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "missing claims"})
		return
	}

	permissions := slices.DeleteFunc(slices.Clone(body.Permissions), func(node string) bool {
		return !claims.HasPermission(node)
	})

	reply := h.commands.Execute(c.Request.Context(), command.Invocation{
		Sender:      sender,
		Permissions: permissions,
		Args:        body.Args,
	})

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *BridgeHandler) GetTransaction(c *gin.Context) {
	result, ok := h.results.Lookup(c.Param(IDKey))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"errors": "transaction not found"})
		return
	}

	c.JSON(http.StatusOK, NewResultResponse(result))
}

func playerParam(c *gin.Context) (uuid.UUID, bool) {
	player, err := uuid.Parse(c.Param(PlayerKey))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid player id"})
		return uuid.Nil, false
	}
	return player, true
}
