package restapi

import (
	"errors"
	"net/http"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIErrorResponse is the body of every non-2xx response.
type APIErrorResponse struct {
	Error string `json:"error"`
	Step  string `json:"step,omitempty"`
}

// ChainStateView is the JSON form of a chain state entry. Base fee is a decimal string.
type ChainStateView struct {
	ChainID       string  `json:"chainId"`
	BlockHeight   *uint64 `json:"blockHeight"`
	BaseFeePerGas *string `json:"baseFeePerGas"`
	NetworkError  bool    `json:"networkError"`
}

// BalanceView is the JSON form of a stored balance.
type BalanceView struct {
	entity.Balance
	Amount string `json:"amount"`
}

type observeBlockRequest struct {
	ChainID       string  `json:"chainId"`
	BlockHeight   uint64  `json:"blockHeight"`
	BaseFeePerGas *string `json:"baseFeePerGas"`
}

type networkErrorRequest struct {
	NetworkError *bool `json:"networkError"`
}

type selectRequest struct {
	ChainID string `json:"chainId"`
}

// NetworkHandler обрабатывает HTTP запросы к реестру сетей.
type NetworkHandler struct {
	registry  port.NetworkRegistry
	remover   port.NetworkRemover
	selection port.SelectionStore
	balances  port.BalanceStore
	fallback  entity.NetworkDescriptor
	logger    port.Logger
}

// NewNetworkHandler создает новый экземпляр NetworkHandler.
func NewNetworkHandler(
	registry port.NetworkRegistry,
	remover port.NetworkRemover,
	selection port.SelectionStore,
	balances port.BalanceStore,
	fallback entity.NetworkDescriptor,
	logger port.Logger,
) *NetworkHandler {
	return &NetworkHandler{
		registry:  registry,
		remover:   remover,
		selection: selection,
		balances:  balances,
		fallback:  fallback,
		logger:    logger,
	}
}

func toStateView(chainID string, e entity.ChainStateEntry) ChainStateView {
	v := ChainStateView{ChainID: chainID, BlockHeight: e.BlockHeight, NetworkError: e.NetworkError}
	if e.BaseFeePerGas != nil {
		fee := e.BaseFeePerGas.String()
		v.BaseFeePerGas = &fee
	}
	return v
}

// bindJSON decodes the request body with jsoniter.
func bindJSON(c *gin.Context, dst any) bool {
	body, err := c.GetRawData()
	if err == nil {
		err = json.Unmarshal(body, dst)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// ListNetworks returns the registered descriptors ordered by chain ID.
//
// @Summary List registered networks
// @Tags networks
// @Produce json
// @Router /networks [get]
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.ListNetworks())
}

// GetNetwork returns one descriptor.
//
// @Summary Get a network descriptor
// @Tags networks
// @Produce json
// @Router /networks/{chainId} [get]
func (h *NetworkHandler) GetNetwork(c *gin.Context) {
	chainID := c.Param("chainId")
	network, ok := h.registry.GetNetwork(chainID)
	if !ok {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: entity.ErrUnknownChain.Error()})
		return
	}
	c.JSON(http.StatusOK, network)
}

// SetNetworks replaces the descriptor set.
//
// @Summary Replace the network list
// @Tags networks
// @Produce json
// @Router /networks [put]
func (h *NetworkHandler) SetNetworks(c *gin.Context) {
	var descriptors []entity.NetworkDescriptor
	if !bindJSON(c, &descriptors) {
		return
	}
	for _, d := range descriptors {
		if d.ChainID == "" {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: entity.ErrInvalidChainID.Error()})
			return
		}
	}
	h.registry.SetNetworks(descriptors)
	h.logger.Info("Network set replaced via API", "count", len(descriptors))
	c.JSON(http.StatusOK, h.registry.ListNetworks())
}

// GetState returns the state entry of one chain.
//
// @Summary Get the state entry of a chain
// @Tags registry
// @Produce json
// @Router /networks/{chainId}/state [get]
func (h *NetworkHandler) GetState(c *gin.Context) {
	chainID := c.Param("chainId")
	state, ok := h.registry.GetState(chainID)
	if !ok {
		c.JSON(http.StatusNotFound, APIErrorResponse{Error: entity.ErrUnknownChain.Error()})
		return
	}
	c.JSON(http.StatusOK, toStateView(chainID, state))
}

// ListStates returns all state entries keyed by chain ID.
//
// @Summary All chain state entries
// @Tags registry
// @Produce json
// @Router /states [get]
func (h *NetworkHandler) ListStates(c *gin.Context) {
	snapshot := h.registry.Snapshot()
	out := make(map[string]ChainStateView, len(snapshot))
	for chainID, e := range snapshot {
		out[chainID] = toStateView(chainID, e)
	}
	c.JSON(http.StatusOK, out)
}

// ObserveBlock applies a block observation.
//
// @Summary Apply a block observation
// @Tags registry
// @Produce json
// @Router /blocks [post]
func (h *NetworkHandler) ObserveBlock(c *gin.Context) {
	var req observeBlockRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ChainID == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: entity.ErrInvalidChainID.Error()})
		return
	}
	block := entity.ObservedBlock{ChainID: req.ChainID, Height: req.BlockHeight}
	if req.BaseFeePerGas != nil {
		fee, ok := utils.ParseBigInt(*req.BaseFeePerGas)
		if !ok || (fee != nil && fee.Sign() < 0) {
			c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "invalid baseFeePerGas"})
			return
		}
		block.BaseFeePerGas = fee
	}
	c.JSON(http.StatusOK, gin.H{"accepted": h.registry.ObserveBlock(block)})
}

// SetAllNetworksError sets the error flag on every chain.
//
// @Summary Set the network error flag on every chain
// @Tags registry
// @Produce json
// @Router /networks/error [put]
func (h *NetworkHandler) SetAllNetworksError(c *gin.Context) {
	var req networkErrorRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.NetworkError == nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: "networkError is required"})
		return
	}
	h.registry.SetAllNetworksError(*req.NetworkError)
	c.Status(http.StatusNoContent)
}

// RemoveNetwork runs the removal workflow for one chain.
//
// @Summary Remove a network
// @Tags networks
// @Produce json
// @Router /networks/{chainId} [delete]
func (h *NetworkHandler) RemoveNetwork(c *gin.Context) {
	chainID := c.Param("chainId")
	err := h.remover.RemoveNetwork(c.Request.Context(), chainID)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"chainId": chainID, "removed": true})
		return
	}

	var removalErr *entity.RemovalError
	switch {
	case errors.Is(err, entity.ErrInvalidChainID):
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrRemovalInProgress):
		c.JSON(http.StatusConflict, APIErrorResponse{Error: err.Error()})
	case errors.As(err, &removalErr):
		c.JSON(http.StatusBadGateway, APIErrorResponse{Error: removalErr.Err.Error(), Step: string(removalErr.Step)})
	default:
		h.logger.Error("Unexpected removal error", "chainID", chainID, "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
	}
}

// GetSelected returns the selected network.
//
// @Summary Get the selected network
// @Tags selection
// @Produce json
// @Router /selected [get]
func (h *NetworkHandler) GetSelected(c *gin.Context) {
	selected, err := h.selection.GetSelected(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, selected)
}

// SetSelected selects a registered network or the fallback network.
//
// @Summary Select a network
// @Tags selection
// @Produce json
// @Router /selected [put]
func (h *NetworkHandler) SetSelected(c *gin.Context) {
	var req selectRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ChainID == "" {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: entity.ErrInvalidChainID.Error()})
		return
	}
	network, ok := h.registry.GetNetwork(req.ChainID)
	if !ok {
		if req.ChainID != h.fallback.ChainID {
			c.JSON(http.StatusNotFound, APIErrorResponse{Error: entity.ErrUnknownChain.Error()})
			return
		}
		network = h.fallback
	}
	if err := h.selection.SetSelected(c.Request.Context(), network); err != nil {
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, network)
}

// GetBalances returns the stored balances of one chain.
//
// @Summary Stored native balances of a chain
// @Tags balances
// @Produce json
// @Router /balances/{chainId} [get]
func (h *NetworkHandler) GetBalances(c *gin.Context) {
	balances, err := h.balances.BalancesByChain(c.Request.Context(), c.Param("chainId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: err.Error()})
		return
	}
	out := make([]BalanceView, len(balances))
	for i, b := range balances {
		out[i] = BalanceView{Balance: b, Amount: "0"}
		if b.Amount != nil {
			out[i].Amount = b.Amount.String()
		}
	}
	c.JSON(http.StatusOK, out)
}
