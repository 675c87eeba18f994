// Package operation wraps service operations with tracing, metrics, logging,
// panic recovery and an optional database transaction.
package operation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Runner holds what every operation of one service shares.
// Tracer, Metrics and DB may be nil.
type Runner struct {
	Service string
	Logger  *slog.Logger
	Metrics metrics.OperationMetrics
	Tracer  trace.Tracer
	DB      *bun.DB
}

// Func is the signature of an operation body.
type Func[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// TxFunc is the signature of an operation body that runs against a database handle.
// The handle is nil when the runner has no database.
type TxFunc[S any, F any] func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error)

// WithTelemetry runs op inside a span, records attempt, outcome and duration,
// and turns a panic into an error.
func WithTelemetry[S any, F any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	op Func[S, F],
) (result results.OperationResult[S, F], err error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var span trace.Span
	if r.Tracer != nil {
		ctx, span = r.Tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("service", r.Service),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if r.Metrics != nil {
		r.Metrics.RecordOperationAttempt(ctx, operationName, r.Service)
	}

	startTime := time.Now()
	defer func() {
		if r.Metrics != nil {
			r.Metrics.RecordOperationDuration(ctx, operationName, r.Service, time.Since(startTime))
		}
	}()

	logger.DebugContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, rec)
			logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if r.Metrics != nil {
				r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if r.Metrics != nil {
			r.Metrics.RecordOperationFailure(ctx, operationName, r.Service)
		}
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, wrappedErr.Error())
		return result, wrappedErr
	}

	if result.IsFailure() {
		logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if r.Metrics != nil {
		r.Metrics.RecordOperationSuccess(ctx, operationName, r.Service)
	}

	return result, nil
}

// RunInTx runs fn in a transaction. A domain failure does not roll back;
// only a returned error does.
func RunInTx[S any, F any](
	r *Runner,
	ctx context.Context,
	fn TxFunc[S, F],
) (results.OperationResult[S, F], error) {
	if r.DB == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := r.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// Run combines WithTelemetry and RunInTx and unwraps the result: a domain
// failure comes back as the error, an infrastructure error wrapped with the
// operation name.
func Run[S any](
	r *Runner,
	ctx context.Context,
	operationName string,
	identifier string,
	fn TxFunc[S, error],
) (S, error) {
	var zero S
	result, err := WithTelemetry(r, ctx, operationName, identifier, func(ctx context.Context) (results.OperationResult[S, error], error) {
		return RunInTx(r, ctx, fn)
	})
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if !result.IsSuccess() {
		return zero, fmt.Errorf("%s: empty result", operationName)
	}
	return *result.Success, nil
}
