// auth.go
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

package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/services"
	"github.com/localnerve/jobdash/internal/types"
)

const principalKey = "principal"

// AuthOptions configures the session gate
type AuthOptions struct {
	// Cookie holding the session token
	Cookie string
	// SignInURL receives browsers without a session. Empty disables the redirect.
	SignInURL string
}

// AuthUser requires a valid session and stores the principal in the request locals
func AuthUser(provider services.SessionProvider, opts AuthOptions) fiber.Handler {
	if opts.Cookie == "" {
		opts.Cookie = "cookie_session"
	}

	return func(c *fiber.Ctx) error {
		token := sessionToken(c, opts.Cookie)
		if token == "" {
			return reject(c, opts, "Session cookie \""+opts.Cookie+"\" not found")
		}

		principal, err := provider.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, types.ErrUnauthorized) {
				return reject(c, opts, "Invalid session")
			}
			return err
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Principal returns the principal stored by AuthUser
func Principal(c *fiber.Ctx) (*services.Principal, bool) {
	p, ok := c.Locals(principalKey).(*services.Principal)
	return p, ok && p != nil
}

// SetPrincipal stores a principal in the request locals
func SetPrincipal(c *fiber.Ctx, p *services.Principal) {
	c.Locals(principalKey, p)
}

// sessionToken reads the session cookie, falling back to a bearer token
func sessionToken(c *fiber.Ctx, cookie string) string {
	if token := c.Cookies(cookie); token != "" {
		return token
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func reject(c *fiber.Ctx, opts AuthOptions, message string) error {
	if opts.SignInURL != "" && prefersHTML(c) {
		return c.Redirect(opts.SignInURL, fiber.StatusSeeOther)
	}
	return &types.CustomError{
		Code:    fiber.StatusUnauthorized,
		Message: message,
		Type:    "data.authorization.user",
	}
}

// prefersHTML reports a browser page load. Clients sending only */* get JSON.
func prefersHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML)
}
