package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

var requestDataKey = contextKey{}

// RequestData is the verified identity attached to a request by the auth
// middleware. Downstream code treats it as opaque {subject, scopes} input
// and never re-validates tokens.
type RequestData struct {
	TokenString  string
	RefreshToken string
	UserID       uuid.UUID
	WorkspaceID  *uuid.UUID
	Scopes       []string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}

func (rd *RequestData) HasScope(scope string) bool {
	if rd == nil {
		return false
	}
	for _, s := range rd.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
