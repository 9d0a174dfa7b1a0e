// Package reconcile fetches completed orders for a time window, extracts
// their activity events and folds them into a per-user latest-event table.
//
// The table applies a last-event-wins rule keyed on the event timestamp,
// which makes reconciliation idempotent: replaying the same events in any
// order, any number of times, converges to the same state. That property is
// what allows the poll windows to overlap after a failed cycle.
package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/pswatch/internal/common"
	"github.com/dmitrijs2005/pswatch/internal/logging"
	"github.com/dmitrijs2005/pswatch/internal/ras"
)

// Reconciler owns the in-memory user table. It lives for the whole process;
// the table grows only by discovering new users and is never evicted.
// It is not safe for concurrent use; the agent runs one cycle at a time.
type Reconciler struct {
	client   ras.Client
	logger   logging.Logger
	siteID   int
	pageSize int

	users map[int64]UserActivity
}

func NewReconciler(client ras.Client, logger logging.Logger, siteID, pageSize int) *Reconciler {
	return &Reconciler{
		client:   client,
		logger:   logger.With("module", "reconcile"),
		siteID:   siteID,
		pageSize: pageSize,
		users:    make(map[int64]UserActivity),
	}
}

// Reconcile processes one poll window: it browses orders completed within
// [from, to), fetches activity events for every signed order and applies
// them to the user table. It returns the ids of users whose latest-event
// state changed during this call, sorted for deterministic flushing.
//
// Any remote failure aborts the whole cycle; the caller must not advance the
// watermark, so the same window is retried.
func (r *Reconciler) Reconcile(ctx context.Context, token ras.Token, from, to time.Time) ([]int64, error) {
	orders, err := r.browseWindow(ctx, token, from, to)
	if err != nil {
		return nil, err
	}

	r.logger.Info(ctx, "found updated orders", "count", len(orders), "since", from)

	changed := make(map[int64]struct{})
	for _, order := range orders {
		if order.Signer == nil {
			continue
		}
		events, err := r.client.GetReportEvents(ctx, token, ras.EventQuery{
			ReportID:          order.ReportID,
			EventsWithContent: true,
			ExcludeViewEvents: true,
			FetchBlob:         false,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: events for report %d: %v", common.ErrRemote, order.ReportID, err)
		}
		for _, event := range events {
			if r.observe(ctx, event) {
				changed[event.Account.ID] = struct{}{}
			}
		}
	}

	ids := make([]int64, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// browseWindow pages through BrowseOrders until a short page signals the end
// of the result set, so a window yielding more orders than one page is not
// silently truncated.
func (r *Reconciler) browseWindow(ctx context.Context, token ras.Token, from, to time.Time) ([]ras.Order, error) {
	var all []ras.Order
	for page := 1; ; page++ {
		orders, err := r.client.BrowseOrders(ctx, token, ras.OrderQuery{
			SiteID:         r.siteID,
			From:           from,
			To:             to,
			OrderStatus:    "Completed",
			TransferStatus: "All",
			ReportStatus:   "Reported",
			Sort:           "LastModifiedDate DESC",
			PageSize:       r.pageSize,
			PageNumber:     page,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: browse orders page %d: %v", common.ErrRemote, page, err)
		}
		all = append(all, orders...)
		if len(orders) < r.pageSize {
			return all, nil
		}
	}
}

// observe applies one activity event to the user table and reports whether
// the table changed. Unrecognized kinds and events older than the user's
// retained state are skipped silently; duplicates (equal timestamps) do not
// overwrite.
func (r *Reconciler) observe(ctx context.Context, event ras.ActivityEvent) bool {
	kind, ok := ParseEventKind(event.Type)
	if !ok {
		return false
	}

	last := LastEvent{
		Kind:        kind,
		Time:        event.EventTime,
		Workstation: event.Workstation,
		Detail:      event.AdditionalInfo,
	}

	user, exists := r.users[event.Account.ID]
	if exists && !user.Last.Time.Before(last.Time) {
		return false
	}
	if !exists {
		user = UserActivity{ID: event.Account.ID, Name: event.Account.Name}
	}
	user.Last = last
	r.users[user.ID] = user

	r.logger.Info(ctx, "user activity",
		"time", last.Time,
		"kind", string(last.Kind),
		"user", user.Name,
		"user_id", user.ID,
		"workstation", last.Workstation,
		"detail", last.Detail,
	)
	return true
}

// Users exposes the live user table for the sink writer. The agent's single
// loop guarantees the table is not mutated while the sink reads it.
func (r *Reconciler) Users() map[int64]UserActivity {
	return r.users
}
