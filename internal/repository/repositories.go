package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories holds all repository instances
type Repositories struct {
	db     *gorm.DB
	wrapTx func(tx *Repositories)

	Sequence    SequenceRepository
	Donor       DonorRepository
	Donation    DonationRepository
	Payment     DonationPaymentRepository
	Installment InstallmentRepository
	DonorLog    DonorLogRepository
	Report      ReportRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Sequence:    NewSequenceRepository(db),
		Donor:       NewDonorRepository(db),
		Donation:    NewDonationRepository(db),
		Payment:     NewDonationPaymentRepository(db),
		Installment: NewInstallmentRepository(db),
		DonorLog:    NewDonorLogRepository(db),
		Report:      NewReportRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// Returning an error from fn rolls everything back. Calls made on an already
// transactional set nest as savepoints.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepos := NewRepositories(tx)
		txRepos.wrapTx = r.wrapTx
		if r.wrapTx != nil {
			r.wrapTx(txRepos)
		}
		return fn(txRepos)
	})
}

// WrapTransactions registers fn to run on every transactional set before use, so
// callers can decorate individual repositories (tests inject failures this way).
func (r *Repositories) WrapTransactions(fn func(tx *Repositories)) {
	r.wrapTx = fn
}

// Ping checks that the database answers.
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
// SQLite serializes writers itself.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// likePattern builds a case-insensitive LIKE argument.
func likePattern(search string) string {
	return "%" + search + "%"
}
