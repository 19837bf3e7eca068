package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/golang-jwt/jwt/v4"
)

const (
	issuer   = "core"
	audience = "videos"

	// tolerated clock drift on iat
	maxIssuedAhead = 30 * time.Second
)

// WithDSTAuth validates the short-lived service token sent by the upload
// collaborator. The token subject ends up in the request context and in logs.
func WithDSTAuth(jwtPublicKeyPEM string) func(http.Handler) http.Handler {
	if jwtPublicKeyPEM == "" {
		logger.Warn(context.Background(), "⚠️  JWT_PUBLIC_KEY not set, requests are not authenticated")
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	v, err := newDSTVerifier(jwtPublicKeyPEM)
	if err != nil {
		panic(err.Error())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				api.WriteError(r.Context(), w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			claims, reason := v.verify(raw, time.Now())
			if reason != "" {
				api.WriteError(r.Context(), w, http.StatusUnauthorized, reason, nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.AuthSubjectKey, claims.subject)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, claims.roles)
			logger.Debugf(ctx, "request authenticated for %q", claims.subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type dstVerifier struct {
	parser *jwt.Parser
	key    any
}

type dstClaims struct {
	subject string
	roles   []string
}

func newDSTVerifier(pemKey string) (*dstVerifier, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("invalid Core RSA public key: %w", err)
	}
	return &dstVerifier{
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name})),
		key:    pubKey,
	}, nil
}

// verify returns the accepted claims, or a non-empty reason for the 401.
func (v *dstVerifier) verify(raw string, now time.Time) (dstClaims, string) {
	claims := jwt.MapClaims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil || !tok.Valid {
		return dstClaims{}, "unauthorized"
	}

	switch {
	case !claims.VerifyIssuer(issuer, true):
		return dstClaims{}, "bad issuer"
	case !claims.VerifyAudience(audience, true):
		return dstClaims{}, "bad audience"
	case !claims.VerifyExpiresAt(now.Unix(), true):
		return dstClaims{}, "token expired"
	}
	if iat, ok := asInt64(claims["iat"]); ok && time.Unix(iat, 0).After(now.Add(maxIssuedAhead)) {
		return dstClaims{}, "invalid iat"
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return dstClaims{}, "missing sub"
	}
	return dstClaims{subject: sub, roles: toStringSlice(claims["roles"])}, ""
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case json.Number:
		i, err := x.Int64()
		if err == nil {
			return i, true
		}
	}
	return 0, false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
