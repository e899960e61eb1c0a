// ping.go
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

package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// AuthorizerPingTimeout bounds the reachability check made before talking to Authorizer
const AuthorizerPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"http":     "80",
	"https":    "443",
	"postgres": "5432",
	"mysql":    "3306",
}

// serviceAddress turns a service URL, or a bare host:port, into a dialable address
func serviceAddress(serviceURL string) (string, error) {
	if !strings.Contains(serviceURL, "://") {
		serviceURL = "http://" + serviceURL
	}

	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid URL: missing host in %q", serviceURL)
	}

	port := parsedURL.Port()
	if port == "" {
		port = defaultPorts[parsedURL.Scheme]
		if port == "" {
			port = "80"
		}
	}

	return net.JoinHostPort(host, port), nil
}

// PingService checks that something accepts TCP connections at the given URL
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	address, err := serviceAddress(serviceURL)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(authzURL string) error {
	return PingService(context.Background(), authzURL, AuthorizerPingTimeout)
}
