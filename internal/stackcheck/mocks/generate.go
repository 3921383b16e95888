package mocks

// Mock implementations used by tests
//go:generate mockgen -destination=./mock_batch_processor.go -package=mocks "github.com/cirisai/stackcheck/pkg/client/ethicsengine" BatchProcessor
//go:generate mockgen -destination=./mock_node.go -package=mocks "github.com/cirisai/stackcheck/internal/stackcheck/benchmark" Node
