package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("bad uuid literal %q: %v", s, err)
	}
	return id
}

func TestMergeHistoryNewestFirstAcrossSources(t *testing.T) {
	owner := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	other := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deposits := []domain.Deposit{
		{ID: mustUUID(t, "00000000-0000-0000-0000-000000000001"), UserID: owner, Asset: "BTC", Amount: decimal.NewFromInt(1), Status: domain.DepositStatusCompleted, CreatedAt: base.Add(1 * time.Minute)},
	}
	withdrawals := []domain.Withdrawal{
		{ID: mustUUID(t, "00000000-0000-0000-0000-000000000002"), UserID: owner, Asset: "BTC", Amount: decimal.NewFromInt(2), Status: domain.WithdrawalStatusPending, CreatedAt: base.Add(2 * time.Minute)},
	}
	transfers := []domain.InternalTransfer{
		{ID: mustUUID(t, "00000000-0000-0000-0000-000000000003"), FromUserID: owner, ToUserID: other, Asset: "BTC", Amount: decimal.NewFromInt(3), CreatedAt: base.Add(3 * time.Minute)},
	}

	merged := mergeHistory(owner, deposits, withdrawals, transfers)
	sortHistory(merged)

	wantIDs := []string{
		"internal:00000000-0000-0000-0000-000000000003",
		"withdrawal:00000000-0000-0000-0000-000000000002",
		"deposit:00000000-0000-0000-0000-000000000001",
	}
	if len(merged) != len(wantIDs) {
		t.Fatalf("expected %d entries, got %d", len(wantIDs), len(merged))
	}
	for i, want := range wantIDs {
		if merged[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, merged[i].ID)
		}
	}
}

func TestMergeHistoryTransferDirectionRelativeToOwner(t *testing.T) {
	owner := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	other := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	transfers := []domain.InternalTransfer{
		{ID: uuid.New(), FromUserID: owner, ToUserID: other, Asset: "ETH", Amount: decimal.NewFromInt(1)},
		{ID: uuid.New(), FromUserID: other, ToUserID: owner, Asset: "ETH", Amount: decimal.NewFromInt(2)},
	}

	merged := mergeHistory(owner, nil, nil, transfers)
	if merged[0].Type != domain.TxTypeInternalSent || merged[0].Direction != domain.DirectionOut {
		t.Fatalf("outgoing transfer classified as %s/%s", merged[0].Type, merged[0].Direction)
	}
	if merged[1].Type != domain.TxTypeInternalReceived || merged[1].Direction != domain.DirectionIn {
		t.Fatalf("incoming transfer classified as %s/%s", merged[1].Type, merged[1].Direction)
	}
	if merged[0].Status != "completed" {
		t.Fatalf("transfers should always read as completed, got %q", merged[0].Status)
	}
}

func TestSortHistoryTiesBreakOnCompositeID(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.UnifiedTransaction{
		{ID: "deposit:aaa", CreatedAt: ts},
		{ID: "withdrawal:bbb", CreatedAt: ts},
		{ID: "internal:ccc", CreatedAt: ts},
	}

	sortHistory(items)

	// Same timestamp: composite ids descending, for a total order that does
	// not depend on input order.
	want := []string{"withdrawal:bbb", "internal:ccc", "deposit:aaa"}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}

	// Re-sorting a rotation of the same records must give the same order.
	rotated := []domain.UnifiedTransaction{items[2], items[0], items[1]}
	sortHistory(rotated)
	for i, id := range want {
		if rotated[i].ID != id {
			t.Fatalf("order not input-independent at %d: expected %s, got %s", i, id, rotated[i].ID)
		}
	}
}

func TestSortHistoryZeroTimestampSortsLast(t *testing.T) {
	items := []domain.UnifiedTransaction{
		{ID: "deposit:aaa"}, // zero CreatedAt
		{ID: "deposit:bbb", CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	sortHistory(items)

	if items[len(items)-1].ID != "deposit:aaa" {
		t.Fatalf("zero timestamp should sort last, got order %s, %s", items[0].ID, items[1].ID)
	}
}

func TestTruncateHistoryAppliesAfterMerge(t *testing.T) {
	items := make([]domain.UnifiedTransaction, 5)
	for i := range items {
		items[i] = domain.UnifiedTransaction{ID: string(rune('a' + i))}
	}

	got := truncateHistory(items, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	got = truncateHistory(items, 10)
	if len(got) != 5 {
		t.Fatalf("limit above length should keep all entries, got %d", len(got))
	}
}

func TestHistoryForUserFetchesEachSourceAtFullLimit(t *testing.T) {
	owner := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Three recent deposits and one older withdrawal. With limit 2 the
	// correct feed is the two newest deposits; truncating sources before the
	// merge could not change that, but truncating the merged feed first and
	// fetching short could drop the right records.
	deposits := make([]domain.Deposit, 3)
	for i := range deposits {
		deposits[i] = domain.Deposit{ID: uuid.New(), UserID: owner, Asset: "BTC", Amount: decimal.NewFromInt(1), Status: domain.DepositStatusCompleted, CreatedAt: base.Add(time.Duration(10+i) * time.Minute)}
	}
	withdrawals := []domain.Withdrawal{
		{ID: uuid.New(), UserID: owner, Asset: "BTC", Amount: decimal.NewFromInt(1), Status: domain.WithdrawalStatusCompleted, CreatedAt: base},
	}

	var depositLimit, withdrawalLimit, transferLimit int
	repo := &fakeRepository{
		listDepositsByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.Deposit, error) {
			depositLimit = limit
			return deposits, nil
		},
		listWithdrawalsByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.Withdrawal, error) {
			withdrawalLimit = limit
			return withdrawals, nil
		},
		listTransfersByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.InternalTransfer, error) {
			transferLimit = limit
			return nil, nil
		},
	}

	service := NewService(repo, nil)
	history, err := service.HistoryForUser(context.Background(), owner, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if depositLimit != 2 || withdrawalLimit != 2 || transferLimit != 2 {
		t.Fatalf("every source should be fetched at the full limit, got %d/%d/%d", depositLimit, withdrawalLimit, transferLimit)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries after truncation, got %d", len(history))
	}
	for _, tx := range history {
		if tx.Type != domain.TxTypeDeposit {
			t.Fatalf("expected only the newest deposits to survive, got %s", tx.Type)
		}
	}
}

func TestHistoryForUserClampsLimit(t *testing.T) {
	owner := uuid.New()

	var seen int
	repo := &fakeRepository{
		listDepositsByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.Deposit, error) {
			seen = limit
			return nil, nil
		},
		listWithdrawalsByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.Withdrawal, error) {
			return nil, nil
		},
		listTransfersByUserFn: func(_ context.Context, _ uuid.UUID, limit int) ([]domain.InternalTransfer, error) {
			return nil, nil
		},
	}
	service := NewService(repo, nil)

	if _, err := service.HistoryForUser(context.Background(), owner, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != defaultHistoryLimit {
		t.Fatalf("limit 0 should fall back to the default %d, got %d", defaultHistoryLimit, seen)
	}

	if _, err := service.HistoryForUser(context.Background(), owner, 10000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != maxHistoryLimit {
		t.Fatalf("oversized limit should clamp to %d, got %d", maxHistoryLimit, seen)
	}
}
