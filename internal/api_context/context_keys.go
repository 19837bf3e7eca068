package api_context

import (
	"context"
)

type ctxKey string

const (
	JobIDKey       ctxKey = "jobID"
	AuthSubjectKey ctxKey = "authSubject"
	AuthRolesKey   ctxKey = "authRoles"
)

func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, JobIDKey, id)
}

func JobIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(JobIDKey).(string)
	return id, ok && id != ""
}

func AuthSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(AuthSubjectKey).(string)
	return sub, ok && sub != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
