package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/gateway"
	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/repository"
)

var dbSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return gdb
}

// staticCodes always issues the same confirmation code.
type staticCodes string

func (c staticCodes) Code() (string, error) { return string(c), nil }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	t        *testing.T
	repo     *repository.BookingRepo
	users    *repository.UserRepo
	gw       *gateway.Stub
	escrow   *EscrowSvc
	booking  *BookingSvc
	delivery *DeliverySvc
	admin    *AdminSvc
	clock    *fakeClock
}

const testCode = "654321"

func newFixture(t *testing.T, adjudicateAll bool) *fixture {
	t.Helper()
	gdb := newTestDB(t)
	repo := repository.NewBookingRepo(gdb)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	users := repository.NewUserRepo(gdb)
	if err := users.Migrate(); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	gw := gateway.NewStub()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	escrow := NewEscrowSvc(repo, gw, nil)
	escrow.now = clock.Now
	booking := NewBookingSvc(repo, escrow, nil, staticCodes(testCode), adjudicateAll)
	booking.now = clock.Now
	delivery := NewDeliverySvc(repo, booking, nil)
	delivery.now = clock.Now
	admin := NewAdminSvc(repo, escrow, nil)
	admin.now = clock.Now
	return &fixture{
		t: t, repo: repo, users: users, gw: gw,
		escrow: escrow, booking: booking, delivery: delivery, admin: admin,
		clock: clock,
	}
}

func (f *fixture) createBooking(amount, fee int64) *domain.Booking {
	f.t.Helper()
	b, _, err := f.booking.Create(context.Background(), "renter-1", CreateBookingInput{
		OwnerID:      "owner-1",
		RentalItemID: "item-1",
		Amount:       amount,
		ServiceFee:   fee,
		Method:       "EVC_PLUS",
		Account:      "612345678",
	})
	if err != nil {
		f.t.Fatalf("create booking: %v", err)
	}
	return b
}

func (f *fixture) acceptedBooking(amount, fee int64) *domain.Booking {
	f.t.Helper()
	b := f.createBooking(amount, fee)
	b, err := f.booking.Accept(context.Background(), "owner-1", b.ID)
	if err != nil {
		f.t.Fatalf("accept booking: %v", err)
	}
	return b
}

func (f *fixture) payment(id int64) *domain.Payment {
	f.t.Helper()
	p, err := f.repo.Payment(context.Background(), id)
	if err != nil {
		f.t.Fatalf("load payment: %v", err)
	}
	return p
}

func (f *fixture) bookingRow(id int64) *domain.Booking {
	f.t.Helper()
	b, _, err := f.repo.ByID(context.Background(), id)
	if err != nil {
		f.t.Fatalf("load booking: %v", err)
	}
	return b
}
