package handler

import (
	"context"

	"github.com/talentoplus/backend/internal/auth"
)

type ContextKey string

var (
	ClaimsCtxKey     ContextKey = "claims"
	EmployeeIDCtxKey ContextKey = "employeeID"
)

func claimsFromContext(ctx context.Context) *auth.Claims {
	return ctx.Value(ClaimsCtxKey).(*auth.Claims)
}

func employeeIDFromContext(ctx context.Context) int64 {
	return ctx.Value(EmployeeIDCtxKey).(int64)
}
