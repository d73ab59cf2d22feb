package mocks

//go:generate mockgen -destination=./mock_exchange.go -package=mocks github.com/rxtech-lab/argo-dashboard/internal/exchange Client
//go:generate mockgen -destination=./mock_hub.go -package=mocks github.com/rxtech-lab/argo-dashboard/internal/hub Observer
