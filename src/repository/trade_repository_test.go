package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

func TestTradeRepositoryFindByIDAndUser(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	entryTime := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	t.Run("returns owned trade", func(t *testing.T) {
		rows := tradeRows(model.Trade{ID: 1, UserID: 42, Symbol: "AAPL", Direction: "long", EntryTime: entryTime})

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE id = $1 AND user_id = $2 ORDER BY "trades"."id" LIMIT $3`)).
			WithArgs(uint(1), uint(42), 1).
			WillReturnRows(rows)

		trade, err := repo.FindByIDAndUser(context.Background(), 1, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if trade == nil || trade.Symbol != "AAPL" {
			t.Fatalf("unexpected trade: %+v", trade)
		}
	})

	t.Run("returns nil,nil for foreign trade", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE id = $1 AND user_id = $2 ORDER BY "trades"."id" LIMIT $3`)).
			WithArgs(uint(1), uint(7), 1).
			WillReturnRows(tradeRows())

		trade, err := repo.FindByIDAndUser(context.Background(), 1, 7)
		if err != nil {
			t.Fatalf("expected nil error on not found, got %v", err)
		}
		if trade != nil {
			t.Fatalf("expected nil trade, got %+v", trade)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryFindRecentByUser(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	entryTime := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	t.Run("orders newest first with limit", func(t *testing.T) {
		rows := tradeRows(
			model.Trade{ID: 3, UserID: 42, Symbol: "TSLA", Direction: "short", EntryTime: entryTime.Add(2 * time.Hour)},
			model.Trade{ID: 2, UserID: 42, Symbol: "AAPL", Direction: "long", EntryTime: entryTime},
		)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE user_id = $1 ORDER BY entry_time DESC LIMIT $2`)).
			WithArgs(uint(42), 50).
			WillReturnRows(rows)

		trades, err := repo.FindRecentByUser(context.Background(), 42, 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(trades) != 2 {
			t.Fatalf("expected 2 trades, got %d", len(trades))
		}
		if trades[0].Symbol != "TSLA" {
			t.Fatalf("trades not returned newest first: %+v", trades)
		}
	})

	t.Run("defaults a non-positive limit", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trades" WHERE user_id = $1 ORDER BY entry_time DESC LIMIT $2`)).
			WithArgs(uint(42), 50).
			WillReturnRows(tradeRows())

		if _, err := repo.FindRecentByUser(context.Background(), 42, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestTradeRepositoryDelete(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &TradeRepository{db: mockDB}

	t.Run("deletes owned trade", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trades" WHERE id = $1 AND user_id = $2`)).
			WithArgs(uint(1), uint(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		deleted, err := repo.Delete(context.Background(), 1, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Fatalf("expected deleted=true")
		}
	})

	t.Run("reports no rows for foreign trade", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trades" WHERE id = $1 AND user_id = $2`)).
			WithArgs(uint(1), uint(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		deleted, err := repo.Delete(context.Background(), 1, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if deleted {
			t.Fatalf("expected deleted=false for foreign trade")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func tradeRows(returned ...model.Trade) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "symbol", "direction", "entry_time"})
	for _, trade := range returned {
		rows.AddRow(trade.ID, trade.UserID, trade.Symbol, trade.Direction, trade.EntryTime)
	}
	return rows
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}
