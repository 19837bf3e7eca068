package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/videos-ms-go/test/testutil"
)

var (
	RedisAddr string
	Redis     *redis.Client
	MinIO     *testutil.MinIOContainerInfo
)

func TestMain(m *testing.M) {
	code := func() int {
		dbCleanup, err := setupMariaDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB setup failed: %v\n", err)
			return 1
		}
		defer dbCleanup()

		redisCleanup, err := setupRedis()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Redis setup failed: %v\n", err)
			return 1
		}
		defer redisCleanup()

		minioCleanup, err := setupMinIO()
		if err != nil {
			fmt.Fprintf(os.Stderr, "MinIO setup failed: %v\n", err)
			return 1
		}
		defer minioCleanup()

		return m.Run()
	}()

	os.Exit(code)
}

func setupMariaDB() (cleanup func(), err error) {
	if os.Getenv("TEST_DB_DSN") != "" {
		// CI provided it; nothing to clean up
		return func() {}, nil
	}

	mdb, err := testutil.StartMariaDBContainer()
	if err != nil {
		return nil, err
	}
	if err := os.Setenv("TEST_DB_DSN", mdb.DSN); err != nil {
		mdb.Cleanup()
		return nil, err
	}
	return mdb.Cleanup, nil
}

func setupRedis() (cleanup func(), err error) {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		RedisAddr = addr
		Redis = redis.NewClient(&redis.Options{Addr: addr})
		return func() { _ = Redis.Close() }, nil
	}

	rc, err := testutil.StartRedisContainer()
	if err != nil {
		return nil, err
	}
	RedisAddr = rc.Addr
	Redis = rc.Client
	return rc.Cleanup, nil
}

func setupMinIO() (cleanup func(), err error) {
	mi, err := testutil.StartMinIOContainer()
	if err != nil {
		return nil, err
	}
	MinIO = mi
	return mi.Cleanup, nil
}

func setupDB(t *testing.T) *testutil.TestDB {
	t.Helper()
	testDB, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.Cleanup(); err != nil {
			t.Logf("cleanup DB: %v", err)
		}
	})
	return testDB
}
