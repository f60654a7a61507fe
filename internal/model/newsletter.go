package model

import "gorm.io/gorm"

type NewsletterSubscriber struct {
	gorm.Model
	Email string `gorm:"column:email;unique;not null"`
}
