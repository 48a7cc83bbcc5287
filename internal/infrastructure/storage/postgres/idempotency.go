package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dealerdesk/internal/core/apperror"
)

// Idempotency key lifecycle. A key is claimed as pending while the guarded
// ledger mutation runs, then settled as succeeded or failed together with the
// HTTP response so retries replay it instead of writing twice.
type idemState string

const (
	idemPending   idemState = "pending"
	idemSucceeded idemState = "success"
	idemFailed    idemState = "failed"
)

// A pending claim older than this is treated as abandoned (handler crashed
// mid-flight) and may be reclaimed by a retry.
const stalePendingAfter = time.Minute

// IdempotencyReplay is a previously settled response, returned verbatim to a
// retried request.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type idempotencyRow struct {
	Key         string
	UserID      string
	Operation   string
	Status      idemState
	RequestHash string
	Response    []byte
	StatusCode  int
	ContentType string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   time.Time
}

func (r *idempotencyRow) replay() *IdempotencyReplay {
	rep := &IdempotencyReplay{
		StatusCode:  r.StatusCode,
		ContentType: r.ContentType,
		Body:        r.Response,
	}
	if rep.StatusCode == 0 {
		rep.StatusCode = http.StatusOK
	}
	if rep.ContentType == "" {
		rep.ContentType = "application/json"
	}
	return rep
}

// matches reports whether the stored claim belongs to the same logical
// request. A key reused with a different body, route or caller is a client
// bug, not a retry.
func (r *idempotencyRow) matches(userID, operation, requestHash string) bool {
	return r.UserID == userID && r.Operation == operation && r.RequestHash == requestHash
}

// IdempotencyStore persists idempotency claims in sys_idempotency. Payment
// and ledger POSTs carry an X-Idempotency-Key header; the store guarantees a
// double-submitted payment lands in the journal exactly once.
type IdempotencyStore struct {
	txManager *TxManager
	ttl       time.Duration
}

func NewIdempotencyStore(txManager *TxManager, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{txManager: txManager, ttl: ttl}
}

// AcquireKey claims key for the current request.
//
// A nil, nil return means the claim is fresh and the handler should run. A
// non-nil replay means an earlier attempt already settled and its response
// must be served as-is. An error means the key is held by an in-flight
// request or was reused for a different request.
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*IdempotencyReplay, error) {
	now := time.Now().UTC()

	row, err := s.upsertClaim(ctx, key, userID, operation, requestHash, now)
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}

	// The upsert leaves created_at untouched on conflict, so a row created
	// at our timestamp is our own fresh claim.
	if !row.CreatedAt.Before(now.Add(-time.Second)) {
		return nil, nil
	}

	if !row.matches(userID, operation, requestHash) {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("stored_user_id", row.UserID).
			WithDetail("request_user_id", userID).
			WithDetail("stored_operation", row.Operation).
			WithDetail("request_operation", operation).
			WithDetail("stored_request_hash", row.RequestHash).
			WithDetail("request_request_hash", requestHash)
	}

	switch row.Status {
	case idemSucceeded, idemFailed:
		return row.replay(), nil
	case idemPending:
		if time.Since(row.UpdatedAt) > stalePendingAfter {
			return nil, s.reclaim(ctx, key, now)
		}
		return nil, apperror.NewIdempotencyConflict(key)
	}
	return nil, nil
}

func (s *IdempotencyStore) upsertClaim(ctx context.Context, key, userID, operation, requestHash string, now time.Time) (*idempotencyRow, error) {
	var row idempotencyRow
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, user_id, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			updated_at = $6,
			expires_at = GREATEST(sys_idempotency.expires_at, $7)
		RETURNING idempotency_key, user_id, operation, status, request_hash, response, response_status, response_content_type, created_at, updated_at, expires_at
	`, key, userID, operation, idemPending, requestHash, now, now.Add(s.ttl)).Scan(
		&row.Key, &row.UserID, &row.Operation, &row.Status,
		&row.RequestHash, &row.Response, &row.StatusCode, &row.ContentType,
		&row.CreatedAt, &row.UpdatedAt, &row.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// reclaim takes over a pending claim whose holder appears to have died.
func (s *IdempotencyStore) reclaim(ctx context.Context, key string, now time.Time) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET updated_at = $1
		WHERE idempotency_key = $2 AND status = $3
	`, now, key, idemPending)
	if err != nil {
		return fmt.Errorf("reclaim stale key: %w", err)
	}
	return nil
}

// CompleteKey settles key as succeeded, caching response for replay.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	var body []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshal response: %w", err)
		}
		body = b
	}
	return s.settle(ctx, key, idemSucceeded, statusCode, contentType, body)
}

// FailKey settles key as failed. The error response is cached too: a retry of
// a deterministic failure should see the same verdict without re-running the
// mutation.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error {
	var body []byte
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			b, _ = json.Marshal(map[string]string{"error": err.Error()})
		}
		body = b
	}
	return s.settle(ctx, key, idemFailed, statusCode, contentType, body)
}

func (s *IdempotencyStore) settle(ctx context.Context, key string, status idemState, statusCode int, contentType string, body []byte) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, status, body, statusCode, contentType, time.Now().UTC(), key)
	return err
}

// CleanupExpired drops claims past their TTL. Run periodically; settled rows
// only need to outlive the client's retry window.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE expires_at < $1
	`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
