package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
)

func TestTransferValidation(t *testing.T) {
	sender := uuid.New()
	repo := &fakeRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			t.Fatal("invalid input should never reach the repository")
			return nil, nil
		},
	}
	service := NewService(repo, nil)

	tests := []struct {
		name      string
		recipient string
		asset     string
		amount    decimal.Decimal
	}{
		{name: "empty recipient", recipient: "", asset: "BTC", amount: decimal.NewFromInt(1)},
		{name: "empty asset", recipient: "bob@example.com", asset: "  ", amount: decimal.NewFromInt(1)},
		{name: "zero amount", recipient: "bob@example.com", asset: "BTC", amount: decimal.Zero},
		{name: "negative amount", recipient: "bob@example.com", asset: "BTC", amount: decimal.NewFromInt(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Transfer(context.Background(), sender, tt.recipient, tt.asset, tt.amount, nil)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTransferUnknownRecipient(t *testing.T) {
	repo := &fakeRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
	}
	service := NewService(repo, nil)

	_, err := service.Transfer(context.Background(), uuid.New(), "ghost@example.com", "BTC", decimal.NewFromInt(1), nil)
	if !errors.Is(err, domain.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

func TestTransferToSelfRejected(t *testing.T) {
	sender := uuid.New()
	repo := &fakeRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: sender, Email: "alice@example.com"}, nil
		},
		executeTransferFn: func(_ context.Context, _ *domain.InternalTransfer) error {
			t.Fatal("self-transfer must be rejected before reaching the store")
			return nil
		},
	}
	service := NewService(repo, nil)

	_, err := service.Transfer(context.Background(), sender, "alice@example.com", "BTC", decimal.NewFromInt(1), nil)
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	recipient := uuid.New()
	repo := &fakeRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: recipient, Email: "bob@example.com"}, nil
		},
		executeTransferFn: func(_ context.Context, _ *domain.InternalTransfer) error {
			return store.ErrInsufficientFunds
		},
	}
	service := NewService(repo, nil)

	_, err := service.Transfer(context.Background(), uuid.New(), "bob@example.com", "BTC", decimal.NewFromInt(100), nil)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestTransferNormalizesAssetAndPassesMemo(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()
	memo := "rent"

	var executed *domain.InternalTransfer
	repo := &fakeRepository{
		findUserByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email != "bob@example.com" {
				t.Fatalf("unexpected recipient lookup %q", email)
			}
			return &domain.User{ID: recipient, Email: email}, nil
		},
		executeTransferFn: func(_ context.Context, transfer *domain.InternalTransfer) error {
			executed = transfer
			return nil
		},
	}
	service := NewService(repo, nil)

	got, err := service.Transfer(context.Background(), sender, "bob@example.com", " btc ", decimal.RequireFromString("0.5"), &memo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if executed == nil {
		t.Fatal("transfer never reached the store")
	}
	if executed.Asset != "BTC" {
		t.Fatalf("asset should be upper-cased and trimmed, got %q", executed.Asset)
	}
	if executed.FromUserID != sender || executed.ToUserID != recipient {
		t.Fatalf("endpoints wrong: %s -> %s", executed.FromUserID, executed.ToUserID)
	}
	if got.Memo == nil || *got.Memo != "rent" {
		t.Fatal("memo not carried through")
	}
}

func TestStoreErrorsSurfaceAsStoreUnavailable(t *testing.T) {
	repo := &fakeRepository{
		listBalancesByUserIDFn: func(_ context.Context, _ uuid.UUID) ([]domain.Balance, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewService(repo, nil)

	_, err := service.ListBalances(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("raw store errors must map to ErrStoreUnavailable, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero falls back to default", limit: 0, want: 50},
		{name: "negative falls back to default", limit: -3, want: 50},
		{name: "in range passes through", limit: 75, want: 75},
		{name: "above max clamps", limit: 10000, want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampLimit(tt.limit, 50, 200); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
