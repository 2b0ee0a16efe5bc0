package shared

import "context"

// Admin describes the authenticated administrator attached to a request.
type Admin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type adminContextKey struct{}

// ContextWithAdmin stores the authenticated admin in context.
func ContextWithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, adminContextKey{}, admin)
}

// AdminFromContext extracts the admin from context.
func AdminFromContext(ctx context.Context) *Admin {
	admin, _ := ctx.Value(adminContextKey{}).(*Admin)
	return admin
}
