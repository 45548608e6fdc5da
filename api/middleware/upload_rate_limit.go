package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mirevents/eventdesk/api/responses"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// UploadRateLimitPolicy defines the throttling parameters for the import
// upload surface.
type UploadRateLimitPolicy struct {
	window     time.Duration
	eventLimit int
	ipLimit    int
}

// NewUploadRateLimitPolicy builds a policy with the supplied window and limits.
func NewUploadRateLimitPolicy(window time.Duration, eventLimit, ipLimit int) UploadRateLimitPolicy {
	return UploadRateLimitPolicy{
		window:     window,
		eventLimit: eventLimit,
		ipLimit:    ipLimit,
	}
}

func (p UploadRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.eventLimit > 0 || p.ipLimit > 0)
}

func (p UploadRateLimitPolicy) eventKey(eventID string) string {
	if eventID == "" {
		return ""
	}
	return fmt.Sprintf("rl:upload:event:%s", eventID)
}

func (p UploadRateLimitPolicy) ipKey(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("rl:upload:ip:%s", ip)
}

// UploadRateLimit enforces per-event and per-IP counters for import uploads.
// A nil store disables the limiter entirely.
func UploadRateLimit(policy UploadRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 {
				if key := policy.ipKey(ip); key != "" {
					if allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.ipLimit)); err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					} else if !allowed {
						respondRateLimited(ctx, logg, w, policy, "ip", ip, count, policy.ipLimit)
						return
					}
				}
			}

			if policy.eventLimit > 0 {
				eventID := chi.URLParam(r, "eventID")
				if key := policy.eventKey(eventID); key != "" {
					if allowed, count, err := allow(ctx, store, key, policy.window, int64(policy.eventLimit)); err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					} else if !allowed {
						respondRateLimited(ctx, logg, w, policy, "event", eventID, count, policy.eventLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy UploadRateLimitPolicy, scope, subject string, count int64, limit int) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"subject":        subject,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "upload.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many import uploads, slow down"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
