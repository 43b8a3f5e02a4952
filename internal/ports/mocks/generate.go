//go:generate mockgen -source=../backend.go         -destination=./mock_backend.go         -package=mocks
//go:generate mockgen -source=../session_storage.go -destination=./mock_session_storage.go -package=mocks
//go:generate mockgen -source=../query_cache.go     -destination=./mock_query_cache.go     -package=mocks
//go:generate mockgen -source=../audit.go           -destination=./mock_audit.go           -package=mocks
//go:generate mockgen -source=../order_service.go   -destination=./mock_order_service.go   -package=mocks

package mocks
