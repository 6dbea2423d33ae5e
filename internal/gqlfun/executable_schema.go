package gqlfun

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
)

type config struct {
	errorPresenter graphql.ErrorPresenterFunc
	recoverFunc    graphql.RecoverFunc
}

type Option func(cfg *config)

func WithErrorPresenter(f graphql.ErrorPresenterFunc) Option {
	return func(cfg *config) {
		cfg.errorPresenter = f
	}
}

func WithRecoverFunc(f graphql.RecoverFunc) Option {
	return func(cfg *config) {
		cfg.recoverFunc = f
	}
}

// NewExecutor returns the executor the HTTP handler would build for es, introspection enabled.
func NewExecutor(es graphql.ExecutableSchema, opts ...Option) *executor.Executor {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	exec := executor.New(es)
	exec.Use(extension.Introspection{})
	if cfg.errorPresenter != nil {
		exec.SetErrorPresenter(cfg.errorPresenter)
	}
	if cfg.recoverFunc != nil {
		exec.SetRecoverFunc(cfg.recoverFunc)
	}

	return exec
}

// Execute runs query against es without going through HTTP.
func Execute(ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]interface{}, opts ...Option) *graphql.Response {
	exec := NewExecutor(es, opts...)

	params := &graphql.RawParams{
		Query:     query,
		Variables: variables,
	}
	ctx = graphql.StartOperationTrace(ctx)
	oc, gErrs := exec.CreateOperationContext(ctx, params)
	if len(gErrs) != 0 {
		return exec.DispatchError(graphql.WithOperationContext(ctx, oc), gErrs)
	}

	rh, ctx := exec.DispatchOperation(ctx, oc)
	return rh(ctx)
}
