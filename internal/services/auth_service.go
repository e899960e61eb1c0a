// auth_service.go
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

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/types"
	"github.com/localnerve/jobdash/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Principal is the signed-in user a request acts for
type Principal struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// SessionProvider resolves a session token to a principal.
// An unknown, expired or invalid token yields types.ErrUnauthorized.
type SessionProvider interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// NewSessionProvider selects the provider named by AUTH_PROVIDER
func NewSessionProvider(cfg *config.Config, db *gorm.DB) (SessionProvider, error) {
	switch cfg.AuthProvider {
	case "authorizer":
		return &AuthorizerProvider{
			DB:          db,
			URL:         cfg.AuthzURL,
			ClientID:    cfg.AuthzClientID,
			RedirectURL: cfg.PublicURL,
			Roles:       []string{"user"},
		}, nil
	case "database":
		return &DatabaseSessionProvider{DB: db}, nil
	}
	return nil, fmt.Errorf("unsupported auth provider: %s", cfg.AuthProvider)
}

// AuthorizerProvider validates session cookies with an Authorizer service
type AuthorizerProvider struct {
	DB          *gorm.DB
	URL         string
	ClientID    string
	RedirectURL string
	Roles       []string

	mu     sync.Mutex
	client *authorizer.AuthorizerClient
}

// init creates the Authorizer client on first use. A failed attempt is retried on the next request.
func (p *AuthorizerProvider) init() (*authorizer.AuthorizerClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	if err := utils.PingAuthorizer(p.URL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
		p.URL, p.ClientID, p.RedirectURL)

	client, err := authorizer.NewAuthorizerClient(p.ClientID, p.URL, p.RedirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	p.client = client
	return client, nil
}

// Authenticate validates the session cookie and makes sure a local user row exists
func (p *AuthorizerProvider) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, types.ErrUnauthorized
	}

	client, err := p.init()
	if err != nil {
		return nil, err
	}

	roles := make([]*string, len(p.Roles))
	for i := range p.Roles {
		roles[i] = &p.Roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: token,
		Roles:  roles,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: session validation failed: %v", types.ErrUnauthorized, err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, fmt.Errorf("%w: session is not valid", types.ErrUnauthorized)
	}

	identity, err := decodeIdentity(res.User)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:            identity.ID,
		Name:          nameFromEmail(identity.Email),
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
	}
	if err := upsertUser(ctx, p.DB, &user); err != nil {
		return nil, err
	}

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// identity is the part of the Authorizer user kept locally
type identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// decodeIdentity reads the Authorizer user through its JSON form, where email may be null
func decodeIdentity(user interface{}) (*identity, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	var id identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	if id.ID == "" {
		return nil, fmt.Errorf("%w: session user has no id", types.ErrUnauthorized)
	}
	return &id, nil
}

// upsertUser inserts the user on first sign-in and refreshes the identity columns after that
func upsertUser(ctx context.Context, db *gorm.DB, user *models.User) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "email_verified", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to sync user %s: %w", user.ID, err)
	}
	return nil
}

func nameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// DatabaseSessionProvider looks session tokens up in the session table
type DatabaseSessionProvider struct {
	DB *gorm.DB
}

// Authenticate resolves an unexpired session token to its user
func (p *DatabaseSessionProvider) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, types.ErrUnauthorized
	}

	db := p.DB.WithContext(ctx)

	var session models.Session
	err := db.Where("token = ? AND expires_at > ?", token, db.NowFunc()).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUnauthorized
		}
		return nil, err
	}

	var user models.User
	if err := db.Where("id = ?", session.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUnauthorized
		}
		return nil, err
	}

	return &Principal{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}
