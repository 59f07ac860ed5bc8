package model

import (
	"time"

	"account-pool-system.com/account-pool-system/internal/constants"
)

type Account struct {
	ID            uint                    `gorm:"primaryKey" json:"id"`
	AccountNumber string                  `gorm:"uniqueIndex;size:32;not null" json:"account_number"`
	Status        constants.AccountStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time               `gorm:"not null;<-:create" json:"created_at"`
}

func (Account) TableName() string {
	return "account_entity"
}
