package exchange

import (
	"context"

	"github.com/adshao/go-binance/v2/futures"
)

// Service interfaces for mocking the Binance futures API

// GetAccountService interface for getting the futures account overview.
type GetAccountService interface {
	Do(ctx context.Context, opts ...futures.RequestOption) (*futures.Account, error)
}

// PositionRiskService interface for listing position risk records.
type PositionRiskService interface {
	Symbol(symbol string) PositionRiskService
	Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.PositionRisk, error)
}

// ListAccountTradeService interface for listing the account's recent trades.
type ListAccountTradeService interface {
	Symbol(symbol string) ListAccountTradeService
	Limit(limit int) ListAccountTradeService
	Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.AccountTrade, error)
}

// IncomeHistoryService interface for querying income history.
type IncomeHistoryService interface {
	Symbol(symbol string) IncomeHistoryService
	StartTime(startTime int64) IncomeHistoryService
	EndTime(endTime int64) IncomeHistoryService
	Limit(limit int64) IncomeHistoryService
	Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.IncomeHistory, error)
}

// PriceChangeStatsService interface for 24h ticker statistics.
type PriceChangeStatsService interface {
	Symbol(symbol string) PriceChangeStatsService
	Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.PriceChangeStats, error)
}

// ServerTimeService interface for synchronizing the request timestamp offset.
type ServerTimeService interface {
	Do(ctx context.Context, opts ...futures.RequestOption) (int64, error)
}

// FuturesAPI abstracts the futures client for testing.
type FuturesAPI interface {
	NewGetAccountService() GetAccountService
	NewGetPositionRiskService() PositionRiskService
	NewListAccountTradeService() ListAccountTradeService
	NewGetIncomeHistoryService() IncomeHistoryService
	NewListPriceChangeStatsService() PriceChangeStatsService
	NewSetServerTimeService() ServerTimeService
}

// realFuturesAPI wraps the actual futures.Client.
type realFuturesAPI struct {
	client *futures.Client
}

func (r *realFuturesAPI) NewGetAccountService() GetAccountService {
	return r.client.NewGetAccountService()
}

func (r *realFuturesAPI) NewGetPositionRiskService() PositionRiskService {
	return &realPositionRiskService{service: r.client.NewGetPositionRiskService()}
}

func (r *realFuturesAPI) NewListAccountTradeService() ListAccountTradeService {
	return &realListAccountTradeService{service: r.client.NewListAccountTradeService()}
}

func (r *realFuturesAPI) NewGetIncomeHistoryService() IncomeHistoryService {
	return &realIncomeHistoryService{service: r.client.NewGetIncomeHistoryService()}
}

func (r *realFuturesAPI) NewListPriceChangeStatsService() PriceChangeStatsService {
	return &realPriceChangeStatsService{service: r.client.NewListPriceChangeStatsService()}
}

func (r *realFuturesAPI) NewSetServerTimeService() ServerTimeService {
	return r.client.NewSetServerTimeService()
}

// Real service wrappers

type realPositionRiskService struct {
	service *futures.GetPositionRiskService
}

func (s *realPositionRiskService) Symbol(symbol string) PositionRiskService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realPositionRiskService) Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.PositionRisk, error) {
	return s.service.Do(ctx, opts...)
}

type realListAccountTradeService struct {
	service *futures.ListAccountTradeService
}

func (s *realListAccountTradeService) Symbol(symbol string) ListAccountTradeService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realListAccountTradeService) Limit(limit int) ListAccountTradeService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realListAccountTradeService) Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.AccountTrade, error) {
	return s.service.Do(ctx, opts...)
}

type realIncomeHistoryService struct {
	service *futures.GetIncomeHistoryService
}

func (s *realIncomeHistoryService) Symbol(symbol string) IncomeHistoryService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realIncomeHistoryService) StartTime(startTime int64) IncomeHistoryService {
	s.service = s.service.StartTime(startTime)

	return s
}

func (s *realIncomeHistoryService) EndTime(endTime int64) IncomeHistoryService {
	s.service = s.service.EndTime(endTime)

	return s
}

func (s *realIncomeHistoryService) Limit(limit int64) IncomeHistoryService {
	s.service = s.service.Limit(limit)

	return s
}

func (s *realIncomeHistoryService) Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.IncomeHistory, error) {
	return s.service.Do(ctx, opts...)
}

type realPriceChangeStatsService struct {
	service *futures.ListPriceChangeStatsService
}

func (s *realPriceChangeStatsService) Symbol(symbol string) PriceChangeStatsService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realPriceChangeStatsService) Do(ctx context.Context, opts ...futures.RequestOption) ([]*futures.PriceChangeStats, error) {
	return s.service.Do(ctx, opts...)
}
