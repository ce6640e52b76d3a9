package ports

import (
	"context"

	"gostat/domain/dataset"
	"gostat/domain/mapping"
	"gostat/domain/stats"
)

// ExecutionRequest carries one method invocation
type ExecutionRequest struct {
	Method   string                  `json:"method"`
	Rows     dataset.Records         `json:"rows"`
	Mapping  mapping.VariableMapping `json:"mapping"`
	Settings mapping.Settings        `json:"settings"`
}

// MethodDescriptor lists one dispatchable method
type MethodDescriptor struct {
	ID     string `json:"id"`
	Family string `json:"family"`
	Label  string `json:"label"`
}

// MethodExecutor runs every method of one analysis family. Implementations
// hold no per-call state and are safe for concurrent use.
type MethodExecutor interface {
	Family() string
	Methods() []string
	Execute(ctx context.Context, req ExecutionRequest) (*stats.ResultEnvelope, error)
}

// Dispatcher routes a request to the executor registered for its method id
type Dispatcher interface {
	ExecuteMethod(ctx context.Context, req ExecutionRequest) (*stats.ResultEnvelope, error)
	Methods(locale string) []MethodDescriptor
}
