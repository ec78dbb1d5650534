package restapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	_ "network_registry/docs"
	"network_registry/internal/app/service"
	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/balancestore"
	"network_registry/internal/infrastructure/selectionstore"
	"network_registry/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRemover struct {
	err     error
	removed []string
}

func (f *fakeRemover) RemoveNetwork(_ context.Context, chainID string) error {
	f.removed = append(f.removed, chainID)
	return f.err
}

type testAPI struct {
	router    *gin.Engine
	handler   *NetworkHandler
	remover   *fakeRemover
	selection *selectionstore.Store
	balances  *balancestore.Store
}

var (
	ethereum = entity.NetworkDescriptor{ChainID: "1", Name: "Ethereum", Identifier: "ethereum"}
	polygon  = entity.NetworkDescriptor{ChainID: "137", Name: "Polygon", Identifier: "polygon"}
)

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewNetworkRegistry("1", zap.NewNop())
	registry.SetNetworks([]entity.NetworkDescriptor{ethereum, polygon})

	api := &testAPI{
		remover:   &fakeRemover{},
		selection: selectionstore.New(ethereum),
		balances:  balancestore.New(0, logger.NewSlogAdapter()),
	}
	api.handler = NewNetworkHandler(registry, api.remover, api.selection, api.balances, ethereum, logger.NewSlogAdapter())
	api.router = SetupRouter(api.handler, RouterOptions{
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		}),
		SwaggerPath: "/swagger",
	})
	return api
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNetworksEndpoints(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/networks", "")
	require.Equal(t, http.StatusOK, w.Code)
	networks := decode[[]entity.NetworkDescriptor](t, w)
	require.Len(t, networks, 2)
	assert.Equal(t, "1", networks[0].ChainID)

	w = api.do(http.MethodGet, "/api/v1/networks/137", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "polygon", decode[entity.NetworkDescriptor](t, w).Identifier)

	w = api.do(http.MethodGet, "/api/v1/networks/999", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, "/api/v1/networks", `[{"chainId":"10","name":"OP"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	networks = decode[[]entity.NetworkDescriptor](t, w)
	require.Len(t, networks, 1)
	assert.Equal(t, "10", networks[0].ChainID)

	w = api.do(http.MethodPut, "/api/v1/networks", `[{"name":"no id"}]`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, "/api/v1/networks", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlocksAndStates(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/blocks", `{"chainId":"137","blockHeight":100,"baseFeePerGas":"30000000000"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["accepted"])

	// stale
	w = api.do(http.MethodPost, "/api/v1/blocks", `{"chainId":"137","blockHeight":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]bool](t, w)["accepted"])

	w = api.do(http.MethodGet, "/api/v1/networks/137/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[ChainStateView](t, w)
	require.NotNil(t, state.BlockHeight)
	assert.Equal(t, uint64(100), *state.BlockHeight)
	require.NotNil(t, state.BaseFeePerGas)
	assert.Equal(t, "30000000000", *state.BaseFeePerGas)
	assert.True(t, state.NetworkError)

	w = api.do(http.MethodGet, "/api/v1/networks/56/state", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/api/v1/blocks", `{"chainId":"137","blockHeight":101,"baseFeePerGas":"lots"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPost, "/api/v1/blocks", `{"blockHeight":101}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, "/api/v1/networks/error", `{"networkError":false}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodPut, "/api/v1/networks/error", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/states", "")
	require.Equal(t, http.StatusOK, w.Code)
	states := decode[map[string]ChainStateView](t, w)
	require.Contains(t, states, "1")
	require.Contains(t, states, "137")
	assert.False(t, states["137"].NetworkError)
	assert.Nil(t, states["1"].BlockHeight)
}

func TestRemoveNetworkStatusCodes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodDelete, "/api/v1/networks/137", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"137"}, api.remover.removed)

	api.remover.err = &entity.RemovalError{ChainID: "137", Step: entity.StepBalancePurge, Err: errors.New("disk full")}
	w = api.do(http.MethodDelete, "/api/v1/networks/137", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[APIErrorResponse](t, w)
	assert.Equal(t, "balance_purge", body.Step)
	assert.Equal(t, "disk full", body.Error)

	api.remover.err = entity.ErrRemovalInProgress
	w = api.do(http.MethodDelete, "/api/v1/networks/137", "")
	require.Equal(t, http.StatusConflict, w.Code)

	api.remover.err = errors.New("boom")
	w = api.do(http.MethodDelete, "/api/v1/networks/137", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSelection(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/selected", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", decode[entity.NetworkDescriptor](t, w).ChainID)

	w = api.do(http.MethodPut, "/api/v1/selected", `{"chainId":"137"}`)
	require.Equal(t, http.StatusOK, w.Code)
	selected, err := api.selection.GetSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "137", selected.ChainID)

	w = api.do(http.MethodPut, "/api/v1/selected", `{"chainId":"56"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, "/api/v1/selected", `{"chainId":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// the fallback can be selected even when it is not registered
	w = api.do(http.MethodPut, "/api/v1/networks", `[{"chainId":"137"}]`)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPut, "/api/v1/selected", `{"chainId":"1"}`)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBalancesAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.balances.PutBalances(context.Background(), []entity.Balance{{
		WalletAddress:    "0x0000000000000000000000000000000000000001",
		ChainID:          "137",
		TokenAddress:     entity.ZeroAddress,
		TokenSymbol:      "POL",
		Decimals:         18,
		IsNative:         true,
		Amount:           big.NewInt(1500000000000000000),
		FormattedBalance: "1.5",
	}}))

	w := api.do(http.MethodGet, "/api/v1/balances/137", "")
	require.Equal(t, http.StatusOK, w.Code)
	balances := decode[[]map[string]any](t, w)
	require.Len(t, balances, 1)
	assert.Equal(t, "1500000000000000000", balances[0]["amount"])

	w = api.do(http.MethodGet, "/api/v1/balances/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = api.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "metrics", w.Body.String())
}

func TestSwaggerAndCORS(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/networks/{chainId}/state")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/networks", nil)
	req.Header.Set("Origin", "https://wallet.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSwaggerDocumentCoversAPIRoutes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[struct {
		BasePath string                         `json:"basePath"`
		Paths    map[string]map[string]struct{} `json:"paths"`
	}](t, w)
	require.Equal(t, "/api/v1", doc.BasePath)

	param := regexp.MustCompile(`:(\w+)`)
	var checked int
	for _, route := range api.router.Routes() {
		if !strings.HasPrefix(route.Path, doc.BasePath+"/") {
			continue
		}
		path := param.ReplaceAllString(strings.TrimPrefix(route.Path, doc.BasePath), "{$1}")
		_, ok := doc.Paths[path][strings.ToLower(route.Method)]
		assert.True(t, ok, "%s %s is not documented", route.Method, path)
		checked++
	}
	assert.Positive(t, checked)
}
