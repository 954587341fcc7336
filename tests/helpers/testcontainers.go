// Testcontainers orchestration for the e2e suite and cmd/testcontainers.
// Reads DB_*, JWT_SECRET and PORT from the environment. The MariaDB init scripts in
// data/initdb create the barrio schema, so DB_DATABASE and DB_USER must both be barrio
// for DB_TYPE mariadb or mysql. Postgres is migrated through GORM instead.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/barrio/data"
	"github.com/localnerve/barrio/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	barrioImage = "barrio-test:latest"
	debugPort   = "2345/tcp"
)

// barrioEnvKeys are passed through to the barrio container when set
var barrioEnvKeys = []string{
	"DB_DATABASE", "DB_USER", "DB_PASSWORD", "DB_CONNECTION_LIMIT", "DB_LOG_LEVEL",
	"JWT_SECRET", "JWT_TTL", "VERIFICATION_CODE_TTL", "TRANSPORT_TIMEOUT",
	"MAILJET_PUBLIC_KEY", "MAILJET_PRIVATE_KEY", "MAIL_FROM_EMAIL", "MAIL_FROM_NAME",
}

type TestContainers struct {
	Network                *testcontainers.DockerNetwork
	DBContainer            testcontainers.Container
	BarrioContainer        testcontainers.Container
	BarrioBuilderContainer testcontainers.Container

	// DBHost and DBPort reach the database from the test process
	DBHost string
	DBPort string
}

// Terminate stops the containers in reverse start order, then removes the network
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	containers := []struct {
		name string
		c    testcontainers.Container
	}{
		{"barrio", tc.BarrioContainer},
		{"barrio builder", tc.BarrioBuilderContainer},
		{"database", tc.DBContainer},
	}
	for _, entry := range containers {
		if entry.c == nil {
			continue
		}
		if err := entry.c.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", entry.name, err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateAllTestContainers starts the database and barrio on a private network. With a nil
// t, failures print and exit the process.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	tc.Network = nw

	fail := func(err error, msg string) {
		tc.Terminate(t)
		exitWithError(t, err, msg)
	}

	dbPort, err := startDatabase(ctx, tc)
	if err != nil {
		fail(err, "Failed to start the database")
	}
	logMessage(t, "DB_URL=%s:%s", tc.DBHost, tc.DBPort)

	if err := initDatabase(t, tc.DBHost, dbPort); err != nil {
		fail(err, "Failed to initialize the database")
	}

	if err := startBarrio(ctx, t, tc); err != nil {
		fail(err, "Failed to start barrio")
	}

	logMessage(t, "Barrio testcontainer started successfully")
	return tc, nil
}

func startDatabase(ctx context.Context, tc *TestContainers) (nat.Port, error) {
	port, err := nat.NewPort("tcp", os.Getenv("DB_PORT"))
	if err != nil {
		return "", err
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{string(port)},
			Env:          dbInitEnv(os.Getenv("DB_TYPE")),
			WaitingFor:   wait.ForListeningPort(port).WithStartupTimeout(60 * time.Second),
			Networks:     []string{tc.Network.Name},
			NetworkAliases: map[string][]string{
				tc.Network.Name: {os.Getenv("DB_HOST")},
			},
		},
		Started: true,
	})
	if err != nil {
		return "", err
	}
	tc.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		return "", err
	}
	mapped, err := dbContainer.MappedPort(ctx, port)
	if err != nil {
		return "", err
	}
	tc.DBHost = host
	tc.DBPort = mapped.Port()
	return mapped, nil
}

func dbInitEnv(dbType string) map[string]string {
	switch dbType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": os.Getenv("DB_PASSWORD"),
			"POSTGRES_USER":     os.Getenv("DB_USER"),
			"POSTGRES_DB":       os.Getenv("DB_DATABASE"),
		}
	case "mariadb", "mysql":
		return map[string]string{
			"MYSQL_ROOT_PASSWORD": os.Getenv("DB_ROOT_PASSWORD"),
			"MYSQL_DATABASE":      os.Getenv("DB_DATABASE"),
			"MYSQL_USER":          os.Getenv("DB_USER"),
			"MYSQL_PASSWORD":      os.Getenv("DB_PASSWORD"),
		}
	}
	return nil
}

func initDatabase(t *testing.T, host string, port nat.Port) error {
	switch dbType := os.Getenv("DB_TYPE"); dbType {
	case "postgres":
		return initPostgres(host, port)
	case "mariadb", "mysql":
		return initMariaDB(host, port)
	default:
		logMessage(t, "No database init for DB_TYPE %q", dbType)
		return nil
	}
}

// waitForPing retries ping once a second for up to 30 seconds
func waitForPing(name string, ping func() error) error {
	var err error
	for i := 0; i < 30; i++ {
		if err = ping(); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("%s not ready after 30 seconds: %w", name, err)
}

func initMariaDB(host string, port nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", os.Getenv("DB_ROOT_PASSWORD"), host, port.Port()))
	if err != nil {
		return err
	}
	defer db.Close()
	// The init scripts switch databases with USE, so keep them on one connection
	db.SetMaxOpenConns(1)

	if err := waitForPing("MariaDB", db.Ping); err != nil {
		return err
	}

	for _, script := range []struct{ name, sql string }{
		{"tables", data.InitdbMariaDBTables},
		{"privileges", data.InitdbMariaDBPrivileges},
	} {
		for _, stmt := range SplitStatements(script.sql) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("%s init: %w: when executing > %s", script.name, err, stmt)
			}
		}
	}
	return nil
}

// initPostgres creates the schema with the same migration barrio runs at startup
func initPostgres(host string, port nat.Port) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port.Port(), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))

	var db *gorm.DB
	err := waitForPing("Postgres", func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), database.GormConfig(logger.Silent))
		return err
	})
	if err != nil {
		return err
	}
	defer database.Close(db)

	return database.AutoMigrate(db)
}

// SplitStatements splits a SQL script on semicolons, dropping -- comments. Quoted text is
// kept as is.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      rune
		comment    bool
	)
	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case comment:
			if r == '\n' {
				comment = false
				current.WriteRune(' ')
			}
		case quote != 0:
			current.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
			current.WriteRune(r)
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			comment = true
			i++
		case r == ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		case r == '\n':
			current.WriteRune(' ')
		default:
			current.WriteRune(r)
		}
	}
	return statements
}

func startBarrio(ctx context.Context, t *testing.T, tc *TestContainers) error {
	port, err := nat.NewPort("tcp", os.Getenv("PORT"))
	if err != nil {
		return err
	}

	debug := os.Getenv("DEBUG_CONTAINER") == "true"
	req := barrioRequest(tc.Network.Name, port, debug)

	exists, err := imageExists(ctx, barrioImage)
	if err != nil {
		return err
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", barrioImage)
		req.Image = barrioImage
	} else {
		logMessage(t, "Image %s does not exist, building...", barrioImage)
		if err := buildBarrio(ctx, tc, &req, debug); err != nil {
			return err
		}
	}

	barrio, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	tc.BarrioContainer = barrio

	host, _ := barrio.Host(ctx)
	mapped, _ := barrio.MappedPort(ctx, port)
	logMessage(t, "BASE_URL=%s:%s", host, mapped.Port())
	return nil
}

// barrioRequest is the barrio container request without its image source
func barrioRequest(networkName string, port nat.Port, debug bool) testcontainers.ContainerRequest {
	env := map[string]string{
		"DB_TYPE": os.Getenv("DB_TYPE"),
		"DB_HOST": os.Getenv("DB_HOST"),
		"DB_PORT": os.Getenv("DB_PORT"),
		"PORT":    port.Port(),
	}
	for _, key := range barrioEnvKeys {
		if value := os.Getenv(key); value != "" {
			env[key] = value
		}
	}

	req := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(port)},
		Env:          env,
		WaitingFor:   wait.ForHTTP("/metrics").WithPort(port).WithStartupTimeout(30 * time.Second),
		Networks:     []string{networkName},
	}

	if debug {
		// dlv is installed by the Dockerfile builder stage when DEBUG=true
		req.ExposedPorts = append(req.ExposedPorts, debugPort)
		req.HostConfigModifier = func(hostConfig *container.HostConfig) {
			hostConfig.PortBindings = nat.PortMap{
				debugPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "2345"}},
			}
			hostConfig.CapAdd = []string{"SYS_PTRACE"}
			hostConfig.SecurityOpt = []string{"apparmor:unconfined"}
		}
		req.Entrypoint = []string{
			"/usr/local/bin/dlv", "--listen=:2345", "--headless=true", "--api-version=2",
			"--accept-multiclient", "exec", "./barrio",
		}
		req.WaitingFor = wait.ForLog("API server listening at: [::]:2345").WithStartupTimeout(5 * time.Minute)
	}
	return req
}

// buildBarrio builds the Dockerfile builder stage on its own, then points req at the
// runtime stage. The image is kept for reuse by later runs.
func buildBarrio(ctx context.Context, tc *TestContainers, req *testcontainers.ContainerRequest, debug bool) error {
	sessionID := uuid.New().String()
	buildArgs := map[string]*string{
		"RESOURCE_REAPER_SESSION_ID": &sessionID,
	}
	if debug {
		enabled := "true"
		buildArgs["DEBUG"] = &enabled
	}

	buildContext := os.Getenv("TESTCONTAINERS_BUILD_CONTEXT")
	if buildContext == "" {
		buildContext = "../.."
	}

	stage := func(repo, tag, target string, keep bool) testcontainers.FromDockerfile {
		return testcontainers.FromDockerfile{
			Context:    buildContext,
			Dockerfile: "Dockerfile",
			Repo:       repo,
			Tag:        tag,
			KeepImage:  keep,
			BuildArgs:  buildArgs,
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = target
			},
			PrintBuildLog: true,
		}
	}

	builder, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: stage("barrio-test-builder", "latest", "builder", false),
		},
		Started: false,
	})
	if err != nil {
		return fmt.Errorf("build barrio-test-builder: %w", err)
	}
	tc.BarrioBuilderContainer = builder

	repo, tag, _ := strings.Cut(barrioImage, ":")
	req.FromDockerfile = stage(repo, tag, "runtime", true)
	return nil
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
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

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
