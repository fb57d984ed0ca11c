package requestid

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// With кладёт идентификатор запроса в контекст
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext возвращает идентификатор запроса или пустую строку
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Ensure возвращает контекст с идентификатором запроса, создавая новый при отсутствии
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return With(ctx, id), id
}
