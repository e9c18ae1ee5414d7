package telemetry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	dbSystemKey    = "db.system"
	dbTableKey     = "db.table"
	dbOperationKey = "db.operation"
	dbStatementKey = "db.statement"

	openQueryKey = "telemetry:open_query"

	maxStatementLen = 500
)

// GORMTracingPlugin returns a plugin that opens a span around every query,
// create, update and delete. Register it with db.Use.
func GORMTracingPlugin() gorm.Plugin {
	return &tracingPlugin{
		tracer: otel.Tracer("gorm"),
	}
}

type tracingPlugin struct {
	tracer trace.Tracer
}

func (p *tracingPlugin) Name() string {
	return "telemetry:tracing"
}

// gormHook is a positioned gorm callback awaiting registration
type gormHook interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Initialize wraps each CRUD chain with a span reporting its SQL verb
func (p *tracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	ops := []struct {
		name, verb    string
		before, after gormHook
	}{
		{"query", "SELECT", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"create", "INSERT", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"update", "UPDATE", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
	}
	for _, op := range ops {
		if err := op.before.Register("telemetry:before_"+op.name, p.before(op.verb)); err != nil {
			return fmt.Errorf("register before_%s: %w", op.name, err)
		}
		if err := op.after.Register("telemetry:after_"+op.name, p.endSpan); err != nil {
			return fmt.Errorf("register after_%s: %w", op.name, err)
		}
	}
	return nil
}

// openQuery is stashed on the statement between the before and after hooks
type openQuery struct {
	span  trace.Span
	start time.Time
}

func (p *tracingPlugin) before(verb string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		_, span := p.tracer.Start(ctx, "db."+strings.ToLower(verb),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String(dbSystemKey, db.Dialector.Name()),
				attribute.String(dbTableKey, table),
				attribute.String(dbOperationKey, verb),
			),
		)
		db.InstanceSet(openQueryKey, openQuery{span: span, start: time.Now()})
	}
}

func (p *tracingPlugin) endSpan(db *gorm.DB) {
	v, ok := db.InstanceGet(openQueryKey)
	if !ok {
		return
	}
	q, ok := v.(openQuery)
	if !ok {
		return
	}
	defer q.span.End()

	attrs := []attribute.KeyValue{attribute.Int64("db.duration_ms", time.Since(q.start).Milliseconds())}
	if stmt := truncateStatement(db.Statement.SQL.String()); stmt != "" {
		attrs = append(attrs, attribute.String(dbStatementKey, stmt))
	}
	if db.RowsAffected > 0 {
		attrs = append(attrs, attribute.Int64("db.rows_affected", db.RowsAffected))
	}
	q.span.SetAttributes(attrs...)

	// ErrRecordNotFound leaves the span ok
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		q.span.RecordError(db.Error)
		q.span.SetStatus(codes.Error, db.Error.Error())
	}
}

func truncateStatement(sql string) string {
	if len(sql) <= maxStatementLen {
		return sql
	}
	return sql[:maxStatementLen] + "..."
}
