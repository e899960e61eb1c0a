// user.go
//
// Job application tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jobdash.
// jobdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jobdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jobdash.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package models

import (
	"time"
)

// User is the identity record. Rows are written on first sign-in and never deleted here.
type User struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:320;not null;uniqueIndex" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	Image         *string   `gorm:"size:2048" json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Sessions     []Session     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Accounts     []Account     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Referrals    []Referral    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActionItems  []ActionItem  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Settings     *UserSettings `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Session is a sign-in session issued by the identity provider
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"not null"`
	Token     string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
	IPAddress *string `gorm:"size:64"`
	UserAgent *string `gorm:"size:1024"`
	UserID    string  `gorm:"size:64;not null;index:session_userId_idx"`
}

// Account links a user to an identity provider account
type Account struct {
	ID                    string `gorm:"primaryKey;size:64"`
	AccountID             string `gorm:"size:255;not null"`
	ProviderID            string `gorm:"size:255;not null"`
	UserID                string `gorm:"size:64;not null;index:account_userId_idx"`
	AccessToken           *string
	RefreshToken          *string
	IDToken               *string
	AccessTokenExpiresAt  *time.Time
	RefreshTokenExpiresAt *time.Time
	Scope                 *string
	Password              *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "user"
}

// TableName overrides the table name for Session
func (Session) TableName() string {
	return "session"
}

// TableName overrides the table name for Account
func (Account) TableName() string {
	return "account"
}
