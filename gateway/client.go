/*
client.go - Remote schedule table client

PURPOSE:
  Thin wrapper around the backend's row-oriented table API (a
  PostgREST-style surface) for the single environment_schedule table:
  select-all, upsert on the 5-column composite key, and delete by the
  same key. All operations flow through the single-flight Queue, so at
  most one backend request is in flight at any time.

AUTHORIZATION:
  Requests carry an api key plus a bearer credential from the current
  session. Credential rotation is IN-PLACE via Rebind: the client is
  never reconstructed, preserving its connection pool and queue.

ERROR CONTRACT:
  Non-2xx responses become a *StatusError. Deleting a row that does not
  exist returns success (the backend reports an empty delete as 2xx).

SEE ALSO:
  - queue.go: The serialization discipline
  - schedule.RemoteGateway: The interface this satisfies
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campuslabs/schedule-engine/schedule"
)

// conflictTarget is the composite key the upsert resolves on.
const conflictTarget = "environment_id,week_number,day_of_week,time_slot,user_email"

const defaultTimeout = 15 * time.Second

// Config wires a Client.
type Config struct {
	// BaseURL is the backend root, e.g. https://xyz.supabase.co.
	BaseURL string

	// APIKey is the project api key sent on every request.
	APIKey string

	// Credential is the initial session bearer token; rotate with Rebind.
	Credential string

	// Table overrides the schedule table name (default environment_schedule).
	Table string

	// Timeout bounds each queued remote operation.
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is the serialized-access schedule table client.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	table   string
	timeout time.Duration
	queue   *Queue
	log     *zap.Logger

	mu     sync.RWMutex
	bearer string
}

// New creates a client. The client is intended to be a process-wide
// singleton shared by all callers; its queue is the mutual exclusion.
func New(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}
	table := cfg.Table
	if table == "" {
		table = "environment_schedule"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpc:   httpc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		table:   table,
		timeout: timeout,
		queue:   NewQueue(),
		log:     log,
		bearer:  cfg.Credential,
	}
}

// Rebind rotates the bearer credential in place. Safe to call while
// operations are queued; queued jobs read the credential when they run.
func (c *Client) Rebind(credential string) {
	c.mu.Lock()
	c.bearer = credential
	c.mu.Unlock()
}

// Wait blocks until all queued operations have finished. Used at
// shutdown so optimistic local edits get their chance to reach the
// backend.
func (c *Client) Wait() {
	c.queue.Wait()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// FetchAll selects every row of the schedule table. Blocking; runs
// through the queue like everything else.
func (c *Client) FetchAll(ctx context.Context) ([]schedule.Row, error) {
	var rows []schedule.Row
	err := c.queue.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?select=*", nil)
		if err != nil {
			return err
		}
		body, err := c.do(req)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		return json.Unmarshal(body, &rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// EnqueueUpsert queues an insert-or-update of row, keyed on the
// composite conflict target. done runs on the queue goroutine.
func (c *Client) EnqueueUpsert(row schedule.Row, done func(error)) {
	c.queue.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		done(c.upsert(ctx, row))
	})
}

// EnqueueDelete queues a delete by composite key. done runs on the
// queue goroutine; an absent row is a success.
func (c *Client) EnqueueDelete(key schedule.RowKey, done func(error)) {
	c.queue.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		done(c.delete(ctx, key))
	})
}

func (c *Client) upsert(ctx context.Context, row schedule.Row) error {
	payload, err := json.Marshal([]schedule.Row{row})
	if err != nil {
		return err
	}
	u := c.tableURL() + "?on_conflict=" + url.QueryEscape(conflictTarget)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("upsert slot %s: %w", row.Key(), err)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, key schedule.RowKey) error {
	q := url.Values{}
	q.Set("environment_id", "eq."+key.EnvironmentID)
	q.Set("week_number", "eq."+strconv.Itoa(key.WeekNumber))
	q.Set("day_of_week", "eq."+key.DayOfWeek)
	q.Set("time_slot", "eq."+key.TimeSlot)
	q.Set("user_email", "eq."+key.UserEmail)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.tableURL()+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	if _, err := c.do(req); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) tableURL() string {
	return c.baseURL + "/rest/v1/" + c.table
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	c.mu.RLock()
	bearer := c.bearer
	c.mu.RUnlock()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

var _ schedule.RemoteGateway = (*Client)(nil)
