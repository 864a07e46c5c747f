package http

import (
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

type ResultResponse struct {
	CorrelationID string         `json:"correlation_id"`
	Player        string         `json:"player"`
	Direction     string         `json:"direction"`
	Amount        string         `json:"amount"`
	Reason        string         `json:"reason,omitempty"`
	State         domain.TxState `json:"state"`
	Attempts      int            `json:"attempts"`
	Balance       string         `json:"balance,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func NewResultResponse(result domain.Result) ResultResponse {
	response := ResultResponse{
		CorrelationID: result.CorrelationID,
		Player:        result.Player.String(),
		Direction:     string(result.Direction),
		Amount:        result.Amount.String(),
		Reason:        result.Reason,
		State:         result.State,
		Attempts:      result.Attempts,
	}
	if result.Committed() {
		response.Balance = result.Balance.String()
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}
	return response
}
