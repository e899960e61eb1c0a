// containers.go
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

package testsupport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/localnerve/jobdash/data"
	"github.com/localnerve/jobdash/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const dbNetworkAlias = "db"

// ContainerOptions describes the database (and optional Authorizer) containers to start
type ContainerOptions struct {
	DBType       string // postgres, mariadb, mysql
	DBImage      string
	Database     string
	User         string
	Password     string
	RootPassword string

	// Authorizer is started only when AuthzImage is set
	AuthzImage       string
	AuthzClientID    string
	AuthzAdminSecret string
	AuthzPort        string
	Debug            bool
}

// Containers are the running test containers and their host-mapped endpoints
type Containers struct {
	Network    *testcontainers.DockerNetwork
	DB         testcontainers.Container
	Authorizer testcontainers.Container

	opts     ContainerOptions
	DBHost   string
	DBPort   string
	AuthzURL string
}

// Config returns a configuration pointing at the started containers
func (tc *Containers) Config() *config.Config {
	cfg := &config.Config{
		Port:              "3000",
		DBType:            tc.opts.DBType,
		DBHost:            tc.DBHost,
		DBPort:            tc.DBPort,
		DBDatabase:        tc.opts.Database,
		DBUser:            tc.opts.User,
		DBPassword:        tc.opts.Password,
		DBConnectionLimit: 5,
		DBSlowQueryMs:     500,
		AuthProvider:      "database",
		SessionCookie:     "cookie_session",
	}
	if tc.AuthzURL != "" {
		cfg.AuthProvider = "authorizer"
		cfg.AuthzURL = tc.AuthzURL
		cfg.AuthzClientID = tc.opts.AuthzClientID
	}
	return cfg
}

// Terminate stops every started container and removes the network
func (tc *Containers) Terminate(ctx context.Context) error {
	var errs []error
	if tc.Authorizer != nil {
		if err := tc.Authorizer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate Authorizer: %w", err))
		}
	}
	if tc.DB != nil {
		if err := tc.DB.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate database: %w", err))
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove network: %w", err))
		}
	}
	return errors.Join(errs...)
}

// StartContainers starts the database, creates the Authorizer database in it and
// optionally starts Authorizer. Everything started is torn down on failure.
func StartContainers(ctx context.Context, opts ContainerOptions) (*Containers, error) {
	tc := &Containers{opts: opts}

	if err := tc.start(ctx); err != nil {
		if termErr := tc.Terminate(context.Background()); termErr != nil {
			log.Printf("Cleanup after failed start: %v", termErr)
		}
		return nil, err
	}
	return tc, nil
}

func (tc *Containers) start(ctx context.Context) error {
	opts := tc.opts

	present, err := ImagePresent(ctx, opts.DBImage)
	if err != nil {
		return fmt.Errorf("failed to check if image exists: %w", err)
	}
	if !present {
		log.Printf("Image %s does not exist locally, pulling...", opts.DBImage)
	}

	nw, err := network.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	tcpDBPort, err := nat.NewPort("tcp", defaultDBPort(opts.DBType))
	if err != nil {
		return fmt.Errorf("failed to create DB port: %w", err)
	}

	dataDir := "/var/lib/mysql"
	if opts.DBType == "postgres" {
		dataDir = "/var/lib/postgresql/data"
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.DBImage,
			ExposedPorts: []string{string(tcpDBPort)},
			Env:          dbInitEnv(opts),
			WaitingFor:   wait.ForListeningPort(tcpDBPort).WithStartupTimeout(90 * time.Second),
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbNetworkAlias},
			},
			HostConfigModifier: func(hostConfig *container.HostConfig) {
				hostConfig.Tmpfs = map[string]string{dataDir: "rw"}
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start database: %w", err)
	}
	tc.DB = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		return err
	}
	mapped, err := dbContainer.MappedPort(ctx, tcpDBPort)
	if err != nil {
		return err
	}
	tc.DBHost, tc.DBPort = host, mapped.Port()

	switch opts.DBType {
	case "postgres":
		err = initPostgres(ctx, opts, tc.DBHost, tc.DBPort)
	default:
		err = initMariaDB(ctx, opts, tc.DBHost, tc.DBPort)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if opts.AuthzImage == "" {
		return nil
	}
	return tc.startAuthorizer(ctx, nw.Name, string(tcpDBPort))
}

func (tc *Containers) startAuthorizer(ctx context.Context, networkName, dbPort string) error {
	opts := tc.opts

	tcpAuthzPort, err := nat.NewPort("tcp", opts.AuthzPort)
	if err != nil {
		return fmt.Errorf("failed to create Authorizer port: %w", err)
	}

	dbPort = strings.TrimSuffix(dbPort, "/tcp")
	databaseType := "mysql"
	databaseURL := fmt.Sprintf("root:%s@tcp(%s:%s)/authorizer", opts.RootPassword, dbNetworkAlias, dbPort)
	if opts.DBType == "postgres" {
		databaseType = "postgres"
		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/authorizer?sslmode=disable", opts.User, opts.Password, dbNetworkAlias, dbPort)
	}

	logLevel := "info"
	if opts.Debug {
		logLevel = "debug"
	}

	authz, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        opts.AuthzImage,
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     opts.AuthzClientID,
				"PORT":          opts.AuthzPort,
				"DATABASE_TYPE": databaseType,
				"DATABASE_NAME": "authorizer",
				"DATABASE_URL":  databaseURL,
				"ADMIN_SECRET":  opts.AuthzAdminSecret,
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     logLevel,
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {"authorizer"},
			},
		},
		Started: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start Authorizer: %w", err)
	}
	tc.Authorizer = authz

	host, err := authz.Host(ctx)
	if err != nil {
		return err
	}
	mapped, err := authz.MappedPort(ctx, tcpAuthzPort)
	if err != nil {
		return err
	}
	tc.AuthzURL = fmt.Sprintf("http://%s:%s", host, mapped.Port())
	return nil
}

func defaultDBPort(dbType string) string {
	if dbType == "postgres" {
		return "5432"
	}
	return "3306"
}

func dbInitEnv(opts ContainerOptions) map[string]string {
	if opts.DBType == "postgres" {
		return map[string]string{
			"POSTGRES_PASSWORD": opts.Password,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_DB":       opts.Database,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD":   opts.RootPassword,
		"MARIADB_ROOT_PASSWORD": opts.RootPassword,
		"MYSQL_DATABASE":        opts.Database,
		"MYSQL_USER":            opts.User,
		"MYSQL_PASSWORD":        opts.Password,
	}
}

func initMariaDB(ctx context.Context, opts ContainerOptions, host, port string) error {
	mc := gomysql.NewConfig()
	mc.User = "root"
	mc.Passwd = opts.RootPassword
	mc.Net = "tcp"
	mc.Addr = host + ":" + port
	mc.MultiStatements = false

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to MariaDB for setup: %w", err)
	}
	defer db.Close()

	// The port opens before the server accepts logins
	if err := waitFor(ctx, 30, func() error { return db.PingContext(ctx) }); err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	return executeSQL(data.InitdbMariaDBAuthorizer, func(q string) error {
		_, err := db.ExecContext(ctx, q)
		return err
	})
}

func initPostgres(ctx context.Context, opts ContainerOptions, host, port string) error {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", opts.User, opts.Password, host, port, opts.Database)

	var conn *pgx.Conn
	err := waitFor(ctx, 30, func() (err error) {
		conn, err = pgx.Connect(ctx, connString)
		return err
	})
	if err != nil {
		return fmt.Errorf("PostgreSQL not ready after 30 seconds: %w", err)
	}
	defer conn.Close(ctx)

	return executeSQL(data.InitdbPostgresAuthorizer, func(q string) error {
		_, err := conn.Exec(ctx, q, pgx.QueryExecModeSimpleProtocol)
		return err
	})
}

func waitFor(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return err
}

// executeSQL runs each statement of a script, skipping -- comments
func executeSQL(script string, exec func(string) error) error {
	lines := strings.Split(script, "\n")

	var kept []string
	for _, l := range lines {
		kept = append(kept, excludeComment(l))
	}

	for _, q := range strings.Split(strings.Join(kept, "\n"), ";") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if err := exec(q); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, q)
		}
	}
	return nil
}

// excludeComment strips a trailing -- comment that is not inside a quoted string
func excludeComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '-' && i+1 < len(line) && line[i+1] == '-':
			return line[:i]
		}
	}
	return line
}

// ImagePresent reports whether the image is already in the local Docker image store
func ImagePresent(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}
