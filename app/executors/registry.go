package executors

import (
	"gostat/internal"
	"gostat/ports"
)

// All returns one instance of every executor family
func All(logger *internal.Logger) []ports.MethodExecutor {
	return []ports.MethodExecutor{
		NewTTestExecutor(logger),
		NewNonparametricExecutor(logger),
		NewANOVAExecutor(logger),
		NewRegressionExecutor(logger),
		NewSurvivalExecutor(logger),
		NewROCExecutor(logger),
	}
}
