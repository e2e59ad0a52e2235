package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/andremq/user-accounts-backend/internal/adapter/repository"
)

const pgUniqueViolation = "23505"

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentRepo is a domain-agnostic repository over one collection table of
// shape (id BIGSERIAL, data JSONB). It enforces exactly two policies: reads
// exclude the password field and the storage id, and Create assigns a fresh
// entityId. Everything else is the caller's business.
//
// Filters match via JSONB containment, so a field value must equal the
// filtered value exactly. Unique expression indexes on the table are reported
// back as *repository.UniqueViolationError keyed by field name.
type DocumentRepo[T any] struct {
	q          querier
	pool       *pgxpool.Pool
	collection string
	logger     *zap.Logger
}

func NewDocumentRepo[T any](pool *pgxpool.Pool, collection string, logger *zap.Logger) *DocumentRepo[T] {
	return &DocumentRepo[T]{q: pool, pool: pool, collection: collection, logger: logger}
}

// NewEntityID returns a fresh externally-unique identifier: a random UUID
// with the separators stripped.
func NewEntityID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (r *DocumentRepo[T]) Create(ctx context.Context, doc T) (*T, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	fields["entityId"] = NewEntityID()

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (data) VALUES ($1) RETURNING data`, r.collection)

	var raw []byte
	if err := r.q.QueryRow(ctx, query, payload).Scan(&raw); err != nil {
		if uv := r.uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	return decode[T](raw)
}

func (r *DocumentRepo[T]) FindOne(ctx context.Context, filter repository.Filter) (*T, error) {
	query := fmt.Sprintf(`SELECT data - 'password' FROM %s WHERE data @> $1 LIMIT 1`, r.collection)

	var raw []byte
	err := r.q.QueryRow(ctx, query, mustJSON(filter)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("document not found",
				zap.String("collection", r.collection),
				zap.Any("filter", filter),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("querying document: %w", err)
	}

	return decode[T](raw)
}

func (r *DocumentRepo[T]) FindOneAndUpdate(ctx context.Context, filter repository.Filter, update repository.Update) (*T, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET data = data || $2
		WHERE id = (SELECT id FROM %s WHERE data @> $1 LIMIT 1)
		RETURNING data - 'password'
	`, r.collection, r.collection)

	var raw []byte
	err := r.q.QueryRow(ctx, query, mustJSON(filter), mustJSON(update)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("document not found",
				zap.String("collection", r.collection),
				zap.Any("filter", filter),
			)
			return nil, nil
		}
		if uv := r.uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, fmt.Errorf("updating document: %w", err)
	}

	return decode[T](raw)
}

// UpdateOne applies the same merge as FindOneAndUpdate but reports only the
// write outcome, for callers that do not need the resulting document.
func (r *DocumentRepo[T]) UpdateOne(ctx context.Context, filter repository.Filter, update repository.Update) (*repository.UpdateResult, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET data = data || $2
		WHERE id = (SELECT id FROM %s WHERE data @> $1 LIMIT 1)
	`, r.collection, r.collection)

	tag, err := r.q.Exec(ctx, query, mustJSON(filter), mustJSON(update))
	if err != nil {
		if uv := r.uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, fmt.Errorf("updating document: %w", err)
	}

	return &repository.UpdateResult{
		MatchedCount:  tag.RowsAffected(),
		ModifiedCount: tag.RowsAffected(),
	}, nil
}

// Upsert merges doc over the first match, inserting a new document from
// filter+doc when nothing matches. The resulting record is returned as
// stored.
func (r *DocumentRepo[T]) Upsert(ctx context.Context, filter repository.Filter, doc T) (*T, error) {
	fields, err := toFields(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET data = data || $2
		WHERE id = (SELECT id FROM %s WHERE data @> $1 LIMIT 1)
		RETURNING data
	`, r.collection, r.collection)

	var raw []byte
	err = r.q.QueryRow(ctx, query, mustJSON(filter), mustJSON(fields)).Scan(&raw)
	if err == nil {
		return decode[T](raw)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if uv := r.uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, fmt.Errorf("upserting document: %w", err)
	}

	merged := make(map[string]any, len(filter)+len(fields)+1)
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	if _, ok := merged["entityId"]; !ok {
		merged["entityId"] = NewEntityID()
	}

	insert := fmt.Sprintf(`INSERT INTO %s (data) VALUES ($1) RETURNING data`, r.collection)
	if err := r.q.QueryRow(ctx, insert, mustJSON(merged)).Scan(&raw); err != nil {
		if uv := r.uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, fmt.Errorf("upserting document: %w", err)
	}

	return decode[T](raw)
}

func (r *DocumentRepo[T]) Find(ctx context.Context, filter repository.Filter) ([]T, error) {
	query := fmt.Sprintf(`SELECT data - 'password' FROM %s WHERE data @> $1`, r.collection)

	rows, err := r.q.Query(ctx, query, mustJSON(filter))
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepo[T]) DeleteOne(ctx context.Context, filter repository.Filter) (*repository.DeleteResult, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = (SELECT id FROM %s WHERE data @> $1 LIMIT 1)
	`, r.collection, r.collection)

	tag, err := r.q.Exec(ctx, query, mustJSON(filter))
	if err != nil {
		return nil, fmt.Errorf("deleting document: %w", err)
	}

	return &repository.DeleteResult{DeletedCount: tag.RowsAffected()}, nil
}

func (r *DocumentRepo[T]) StartTransaction(ctx context.Context) (*Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return &Session{tx: tx}, nil
}

// WithSession returns a copy of the repository whose operations run inside
// sess. The original repository keeps running against the pool.
func (r *DocumentRepo[T]) WithSession(sess *Session) *DocumentRepo[T] {
	bound := *r
	bound.q = sess.tx
	return &bound
}

func (r *DocumentRepo[T]) uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, r.collection+"_"), "_key")
	return &repository.UniqueViolationError{Field: field, Err: err}
}

// Session wraps a pgx transaction as an explicit unit of work.
type Session struct {
	tx pgx.Tx
}

func (s *Session) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Session) Abort(ctx context.Context) error {
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("aborting transaction: %w", err)
	}
	return nil
}

// toFields flattens a document to its field map, dropping any
// caller-supplied identifier.
func toFields(doc any) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "entityId")
	return fields, nil
}

func decode[T any](raw []byte) (*T, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &doc, nil
}

// mustJSON encodes a plain field map; nil maps encode as the empty filter.
func mustJSON(m map[string]any) []byte {
	if m == nil {
		return []byte("{}")
	}
	raw, err := json.Marshal(m)
	if err != nil {
		// field maps of JSON-able values cannot fail to encode
		panic(err)
	}
	return raw
}
