package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/log"
)

const codeInternal = "INTERNAL"

// ErrorPresenter sets extensions.code on every error.
// Domain failures use their kind, anything else is logged and reported as INTERNAL.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	gErr := graphql.DefaultErrorPresenter(ctx, err)

	code := codeInternal
	var fErr *failure.Error
	switch {
	case errors.As(err, &fErr):
		if fErr.Kind != failure.KindConflict {
			code = fErr.Kind.String()
		}
	case gErr.Extensions["code"] != nil:
		return gErr
	case errors.Unwrap(gErr) != nil:
		log.FromContext(ctx).Error(err, "unexpected error", "path", gErr.Path.String())
	}

	if gErr.Extensions == nil {
		gErr.Extensions = make(map[string]interface{})
	}
	gErr.Extensions["code"] = code

	return gErr
}
