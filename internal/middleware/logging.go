package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/metrics"
)

// LoggingInterceptor logs every RPC and records its outcome in metrics.
// Client errors log at warn, anything unclassified at error.
// It must run after RequireAuth so the user ID is on the context.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			attrs := []any{
				slog.String("procedure", procedure),
				slog.String("user_id", GetUserID(ctx)),
				slog.Int64("duration_ms", elapsed.Milliseconds()),
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				metrics.ObserveRPC(procedure, "ok", elapsed)
				logger.InfoContext(ctx, "RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown:
				metrics.ObserveRPC(procedure, connectErr.Code().String(), elapsed)
				logger.WarnContext(ctx, "RPC error", append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()))...)
			default:
				metrics.ObserveRPC(procedure, connect.CodeOf(err).String(), elapsed)
				logger.ErrorContext(ctx, "RPC error", append(attrs, slog.Any("error", err))...)
			}

			return resp, err
		}
	}
}
