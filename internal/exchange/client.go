package exchange

import (
	"context"
	"strings"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/types"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"golang.org/x/time/rate"
)

// Endpoint names used in errors and diagnostics.
const (
	EndpointAccount   = "account"
	EndpointPositions = "positions"
	EndpointTrades    = "trades"
	EndpointIncome    = "income"
	EndpointTicker    = "ticker"
	EndpointTime      = "time"
)

// IncomeQuery selects an income history window. Times are in milliseconds.
type IncomeQuery struct {
	Symbol    string
	StartTime int64
	EndTime   int64
	Limit     int
}

// Client is the REST surface the polling loops depend on.
type Client interface {
	GetAccount(ctx context.Context) (types.RawAccount, error)
	GetPositions(ctx context.Context) ([]types.RawPosition, error)
	GetRecentTrades(ctx context.Context, symbol string, limit int) ([]types.RawTrade, error)
	GetIncomeHistory(ctx context.Context, query IncomeQuery) ([]types.IncomeRecord, error)
	GetTicker24h(ctx context.Context, symbol string) (types.RawTicker, error)
}

// BinanceFuturesClient implements Client on the Binance USDⓈ-M futures REST API.
// Every call waits on a shared rate limiter and carries the configured recv window.
type BinanceFuturesClient struct {
	api        FuturesAPI
	limiter    *rate.Limiter
	recvWindow int64
}

// NewBinanceFuturesClient creates a client for cfg. Signing is done by the SDK
// with the configured key pair; testnet switches every futures endpoint.
func NewBinanceFuturesClient(cfg config.ExchangeConfig) (*BinanceFuturesClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errors.New(errors.ErrCodeConfigurationMissing, "binance futures credentials are not set")
	}

	if cfg.Testnet {
		futures.UseTestnet = true
	}

	client := futures.NewClient(cfg.APIKey, cfg.APISecret)

	return newBinanceFuturesClientWithAPI(&realFuturesAPI{client: client}, cfg), nil
}

// newBinanceFuturesClientWithAPI creates a client on a custom API.
// This is used for testing with fake services.
func newBinanceFuturesClientWithAPI(api FuturesAPI, cfg config.ExchangeConfig) *BinanceFuturesClient {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &BinanceFuturesClient{
		api:        api,
		limiter:    rate.NewLimiter(limit, burst),
		recvWindow: cfg.RecvWindow,
	}
}

// SyncServerTime aligns the SDK's request timestamps with the exchange clock.
func (c *BinanceFuturesClient) SyncServerTime(ctx context.Context) (int64, error) {
	if err := c.wait(ctx, EndpointTime); err != nil {
		return 0, err
	}

	offset, err := c.api.NewSetServerTimeService().Do(ctx)
	if err != nil {
		return 0, wrapUpstreamError(EndpointTime, err)
	}

	return offset, nil
}

// GetAccount fetches the account overview.
func (c *BinanceFuturesClient) GetAccount(ctx context.Context) (types.RawAccount, error) {
	if err := c.wait(ctx, EndpointAccount); err != nil {
		return types.RawAccount{}, err
	}

	account, err := c.api.NewGetAccountService().Do(ctx, c.options()...)
	if err != nil {
		return types.RawAccount{}, wrapUpstreamError(EndpointAccount, err)
	}

	if account == nil {
		return types.RawAccount{}, errors.New(errors.ErrCodeUpstreamRequestFailed, "account: empty response")
	}

	return types.RawAccount{
		TotalWalletBalance:    account.TotalWalletBalance,
		TotalUnrealizedProfit: account.TotalUnrealizedProfit,
		TotalCrossUnPnl:       account.TotalCrossUnPnl,
		TotalInitialMargin:    account.TotalInitialMargin,
		TotalMarginBalance:    account.TotalMarginBalance,
		AvailableBalance:      account.AvailableBalance,
	}, nil
}

// GetPositions fetches position risk for every symbol.
func (c *BinanceFuturesClient) GetPositions(ctx context.Context) ([]types.RawPosition, error) {
	if err := c.wait(ctx, EndpointPositions); err != nil {
		return nil, err
	}

	risks, err := c.api.NewGetPositionRiskService().Do(ctx, c.options()...)
	if err != nil {
		return nil, wrapUpstreamError(EndpointPositions, err)
	}

	positions := make([]types.RawPosition, 0, len(risks))
	for _, risk := range risks {
		if risk == nil {
			continue
		}

		positions = append(positions, types.RawPosition{
			Symbol:           risk.Symbol,
			PositionAmt:      risk.PositionAmt,
			EntryPrice:       risk.EntryPrice,
			MarkPrice:        risk.MarkPrice,
			UnRealizedProfit: risk.UnRealizedProfit,
			PositionSide:     string(risk.PositionSide),
		})
	}

	return positions, nil
}

// GetRecentTrades fetches the latest limit account trades for symbol.
func (c *BinanceFuturesClient) GetRecentTrades(ctx context.Context, symbol string, limit int) ([]types.RawTrade, error) {
	if err := c.wait(ctx, EndpointTrades); err != nil {
		return nil, err
	}

	trades, err := c.api.NewListAccountTradeService().
		Symbol(strings.ToUpper(symbol)).
		Limit(limit).
		Do(ctx, c.options()...)
	if err != nil {
		return nil, wrapUpstreamError(EndpointTrades, err)
	}

	raw := make([]types.RawTrade, 0, len(trades))
	for _, trade := range trades {
		if trade == nil {
			continue
		}

		raw = append(raw, types.RawTrade{
			ID:            nonZero(trade.ID),
			Symbol:        trade.Symbol,
			Side:          string(trade.Side),
			Price:         trade.Price,
			Quantity:      trade.Quantity,
			QuoteQuantity: trade.QuoteQuantity,
			RealizedPnl:   trade.RealizedPnl,
			Commission:    trade.Commission,
			Maker:         trade.Maker,
			Time:          nonZero(trade.Time),
		})
	}

	return raw, nil
}

// GetIncomeHistory fetches income records within the query window.
func (c *BinanceFuturesClient) GetIncomeHistory(ctx context.Context, query IncomeQuery) ([]types.IncomeRecord, error) {
	if err := c.wait(ctx, EndpointIncome); err != nil {
		return nil, err
	}

	service := c.api.NewGetIncomeHistoryService()
	if query.Symbol != "" {
		service = service.Symbol(strings.ToUpper(query.Symbol))
	}

	if query.StartTime > 0 {
		service = service.StartTime(query.StartTime)
	}

	if query.EndTime > 0 {
		service = service.EndTime(query.EndTime)
	}

	if query.Limit > 0 {
		service = service.Limit(int64(query.Limit))
	}

	history, err := service.Do(ctx, c.options()...)
	if err != nil {
		return nil, wrapUpstreamError(EndpointIncome, err)
	}

	records := make([]types.IncomeRecord, 0, len(history))
	for _, h := range history {
		if h == nil {
			continue
		}

		records = append(records, types.IncomeRecord{
			Symbol:     h.Symbol,
			IncomeType: string(h.IncomeType),
			Income:     h.Income,
			Time:       nonZero(h.Time),
		})
	}

	return records, nil
}

// GetTicker24h fetches the 24h statistics of one symbol.
func (c *BinanceFuturesClient) GetTicker24h(ctx context.Context, symbol string) (types.RawTicker, error) {
	if err := c.wait(ctx, EndpointTicker); err != nil {
		return types.RawTicker{}, err
	}

	stats, err := c.api.NewListPriceChangeStatsService().Symbol(strings.ToUpper(symbol)).Do(ctx)
	if err != nil {
		return types.RawTicker{}, wrapUpstreamError(EndpointTicker, err)
	}

	for _, s := range stats {
		if s != nil && strings.EqualFold(s.Symbol, symbol) {
			return types.RawTicker{
				Symbol:             s.Symbol,
				LastPrice:          s.LastPrice,
				PriceChangePercent: s.PriceChangePercent,
			}, nil
		}
	}

	return types.RawTicker{}, errors.Newf(errors.ErrCodeUpstreamRequestFailed, "ticker: no statistics for %s", symbol)
}

func (c *BinanceFuturesClient) options() []futures.RequestOption {
	if c.recvWindow <= 0 {
		return nil
	}

	return []futures.RequestOption{futures.WithRecvWindow(c.recvWindow)}
}

func (c *BinanceFuturesClient) wait(ctx context.Context, endpoint string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeUpstreamRequestFailed, err, "%s: rate limiter", endpoint)
	}

	return nil
}

// wrapUpstreamError maps an API rejection to UpstreamRejected and every other
// failure to UpstreamRequestFailed.
func wrapUpstreamError(endpoint string, err error) error {
	if common.IsAPIError(err) {
		return errors.Wrapf(errors.ErrCodeUpstreamRejected, err, "%s: request rejected", endpoint)
	}

	return errors.Wrapf(errors.ErrCodeUpstreamRequestFailed, err, "%s: request failed", endpoint)
}

func nonZero(v int64) optional.Option[int64] {
	if v == 0 {
		return optional.None[int64]()
	}

	return optional.Some(v)
}
