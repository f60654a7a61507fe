package repository

import (
	"context"

	"github.com/pawhaven/platform/internal/model"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"gorm.io/gorm"
)

type NewsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Subscribe stores a newsletter email. A duplicate surfaces as
// gorm.ErrDuplicatedKey for the service to translate.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Subscribe")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	subscriber := model.NewsletterSubscriber{Email: email}
	if err := r.db.WithContext(ctx).Create(&subscriber).Error; err != nil {
		logger.DebugWithContext(ctx, "Failed to store newsletter subscriber").
			String("email", email).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Newsletter subscriber stored").
		String("email", email).
		Log()

	return nil
}
