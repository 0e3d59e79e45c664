package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextCompanyKey ctxKey = "companyID"
	ContextEmailKey   ctxKey = "companyEmail"
)

// CompanyIDFromContext returns the tenant resolved by the auth middleware,
// or "" on unauthenticated requests.
func CompanyIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if companyID, ok := ctx.Value(ContextCompanyKey).(string); ok {
		return companyID
	}
	return ""
}

func ContextWithCompany(ctx context.Context, companyID, email string) context.Context {
	ctx = context.WithValue(ctx, ContextCompanyKey, companyID)
	return context.WithValue(ctx, ContextEmailKey, email)
}

func CompanyEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(ContextEmailKey).(string); ok {
		return email
	}
	return ""
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
