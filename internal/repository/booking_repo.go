package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AbdihakiimGedi/Rent-management-system-sub002/internal/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{}, &domain.Payment{})
}

// Create inserts a booking and its escrow record in one transaction.
func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	if !p.Consistent() {
		return domain.ErrLedgerInconsistency
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		p.BookingID = b.ID
		return tx.Create(p).Error
	})
}

// Mutate runs fn against the booking and its payment inside a transaction,
// with both rows locked FOR UPDATE so that read-compute-write sequences on a
// booking are linearizable. Writes that would break the money invariant are
// rejected before commit.
func (r *BookingRepo) Mutate(ctx context.Context, id int64, fn func(b *domain.Booking, p *domain.Payment) error) (*domain.Booking, *domain.Payment, error) {
	var b domain.Booking
	var p domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// sqlite (tests) has no row locks; its writes serialize anyway
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := q.First(&p, "booking_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := fn(&b, &p); err != nil {
			return err
		}
		if !p.Consistent() {
			return domain.ErrLedgerInconsistency
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &b, &p, nil
}

func (r *BookingRepo) ByID(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "booking_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	return &b, &p, nil
}

func (r *BookingRepo) ListByRenter(ctx context.Context, renterID string, page, size int) ([]domain.Booking, int64, error) {
	return r.list(ctx, "renter_id = ?", renterID, page, size)
}

func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID string, page, size int) ([]domain.Booking, int64, error) {
	return r.list(ctx, "owner_id = ?", ownerID, page, size)
}

func (r *BookingRepo) list(ctx context.Context, cond, arg string, page, size int) ([]domain.Booking, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Booking{}).Where(cond, arg)
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	if err := qb.Order("created_at DESC").Limit(size).Offset(page * size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BookingRepo) Payment(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "booking_id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListHeldQueued builds the admin worklist: HELD payments flagged for review,
// joined with identity snapshots of both parties.
func (r *BookingRepo) ListHeldQueued(ctx context.Context) ([]domain.HeldPayment, error) {
	var pays []domain.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND queued_for_review = ?", domain.PaymentHeld, true).
		Order("held_at ASC").
		Find(&pays).Error; err != nil {
		return nil, err
	}
	out := make([]domain.HeldPayment, 0, len(pays))
	for i := range pays {
		p := &pays[i]
		var b domain.Booking
		if err := r.db.WithContext(ctx).First(&b, "id = ?", p.BookingID).Error; err != nil {
			return nil, err
		}
		entry := domain.HeldPayment{
			BookingID:        b.ID,
			RentalItemID:     b.RentalItemID,
			PaymentAmount:    p.Amount,
			ServiceFee:       p.ServiceFee,
			TotalAmount:      p.TotalAmount,
			Method:           p.Method,
			HeldAt:           p.HeldAt,
			RequirementsData: b.RequirementsData,
			DisputeReason:    b.DisputeReason,
			CreatedAt:        b.CreatedAt,
		}
		var renter, owner domain.User
		if err := r.db.WithContext(ctx).First(&renter, "id = ?", b.RenterID).Error; err == nil {
			entry.Renter = domain.PartySnapshot{ID: renter.ID, Name: renter.Name, Email: renter.Email}
		} else {
			entry.Renter = domain.PartySnapshot{ID: b.RenterID}
		}
		if err := r.db.WithContext(ctx).First(&owner, "id = ?", b.OwnerID).Error; err == nil {
			entry.Owner = domain.PartySnapshot{ID: owner.ID, Name: owner.Name, Email: owner.Email}
		} else {
			entry.Owner = domain.PartySnapshot{ID: b.OwnerID}
		}
		out = append(out, entry)
	}
	return out, nil
}
