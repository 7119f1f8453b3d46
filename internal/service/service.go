// Package service implements the query and mutation surface of the staff
// directory. Reads run against a store snapshot; every mutation runs its
// validation and its write inside one store transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-service/internal/config"
	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/observability"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

var tracer = otel.Tracer("github.com/spec-kit/staff-service/internal/service")

// Dependencies bundles what every service needs.
type Dependencies struct {
	Store      *repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Pagination config.PaginationConfig
}

type base struct {
	store      *repository.Store
	validator  *MutationValidator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	maxFirst   int
}

func newBase(deps Dependencies) base {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{
		store:      deps.Store,
		validator:  NewMutationValidator(deps.Store),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		maxFirst:   deps.Pagination.MaxFirst,
	}
}

// mutate runs fn in a read-write transaction.
func (b *base) mutate(ctx context.Context, op string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := tracer.Start(ctx, "service."+op, trace.WithAttributes(attrs...))
	defer span.End()

	err := storeError(b.store.Tx.WithinTx(ctx, fn))
	b.finish(span, op, err)
	return err
}

// query runs fn against a consistent snapshot.
func (b *base) query(ctx context.Context, op string, args pagination.Args, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "service."+op)
	defer span.End()

	err := b.checkArgs(args)
	if err == nil {
		err = storeError(b.store.Tx.WithinSnapshot(ctx, fn))
	}
	b.finish(span, op, err)
	return err
}

func (b *base) finish(span trace.Span, op string, err error) {
	if err == nil {
		b.metrics.RecordOperation(op, "ok")
		return
	}
	de := apperrors.ToDomainError(err)
	b.metrics.RecordOperation(op, de.Code)
	span.RecordError(err)
	span.SetStatus(codes.Error, de.Code)
	if de.HTTPStatus >= 500 {
		b.logger.Error("operation failed", zap.String("operation", op), zap.Error(err))
	}
}

func (b *base) checkArgs(args pagination.Args) error {
	if b.maxFirst > 0 && args.First != nil && *args.First > b.maxFirst {
		return apperrors.NewValidationError(
			fmt.Sprintf("first must not exceed %d", b.maxFirst),
			map[string]any{"first": *args.First, "max": b.maxFirst})
	}
	return nil
}

// publish announces committed changes. Handler failures never fail the mutation.
func (b *base) publish(ctx context.Context, evts ...events.Event) {
	if b.dispatcher == nil {
		return
	}
	for _, e := range evts {
		if err := b.dispatcher.Publish(ctx, e); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("event_type", string(e.Type)),
				zap.String("entity_id", e.EntityID),
				zap.Error(err))
		}
	}
}

// storeError converts repository failures that escaped validation, typically
// because a concurrent transaction committed in between.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	if repository.IsNotFound(err) {
		return apperrors.NewNotFound("record", nil)
	}

	var ce *repository.ConstraintError
	if errors.As(err, &ce) {
		switch ce.Constraint {
		case repository.ConstraintUsersEmail:
			return apperrors.NewDuplicateEmail("")
		case repository.ConstraintTeamsManages:
			return apperrors.NewDomainError(apperrors.CodeUserManagesTeam, "user already manages a team", http.StatusConflict, nil)
		case repository.ConstraintTeamsManager, repository.ConstraintUserRolesUser, repository.ConstraintAbsencesUser:
			return apperrors.NewNotFound("user", nil)
		case repository.ConstraintUsersTeam:
			return apperrors.NewNotFound("team", nil)
		case repository.ConstraintUserRolesRole:
			return apperrors.NewNotFound("role", nil)
		case repository.ConstraintAbsencesType:
			return apperrors.NewNotFound("absence type", nil)
		}
	}
	return apperrors.NewInternalError(err)
}

// emailConflict names the email when the unique index rejected a write.
func emailConflict(err error, email string) error {
	if repository.IsConstraint(err, repository.ConstraintUsersEmail) {
		return apperrors.NewDuplicateEmail(email)
	}
	return err
}

// typeInUse reports the restrict violation of an absence type delete with the
// same error the pre-check returns.
func typeInUse(err error, t *domain.AbsenceType) error {
	if repository.IsConstraint(err, repository.ConstraintAbsencesType) {
		return apperrors.NewAbsenceTypeInUse(t.ID, t.Name)
	}
	return err
}

// source adapts a filtered repository listing to a pagination source.
func source[T, F any](
	filter F,
	list func(context.Context, F, pagination.Window) ([]T, error),
	contains func(context.Context, F, string) (bool, error),
	id func(T) string,
) pagination.Source[T] {
	return pagination.Source[T]{
		ID: id,
		Contains: func(ctx context.Context, nodeID string) (bool, error) {
			return contains(ctx, filter, nodeID)
		},
		Fetch: func(ctx context.Context, w pagination.Window) ([]T, error) {
			return list(ctx, filter, w)
		},
	}
}
