package database

import (
	"KolBD/internal/api/config"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURLSQLite(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dsn      string
		inMemory bool
	}{
		{"relative", "sqlite:///./kol_bd_tool.db", "./kol_bd_tool.db?_busy_timeout=5000&_foreign_keys=1", false},
		{"absolute", "sqlite:////var/lib/kol.db", "/var/lib/kol.db?_busy_timeout=5000&_foreign_keys=1", false},
		{"empty path", "sqlite://", ":memory:?_busy_timeout=5000&_foreign_keys=1", true},
		{"explicit memory", "sqlite:///:memory:", ":memory:?_busy_timeout=5000&_foreign_keys=1", true},
		{"sqlite3 scheme", "sqlite3:///data.db", "data.db?_busy_timeout=5000&_foreign_keys=1", false},
		// 外键始终打开，显式 busy_timeout 保留
		{"query kept", "sqlite:///data.db?_busy_timeout=100&_foreign_keys=0", "data.db?_busy_timeout=100&_foreign_keys=1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, SQLite, target.Dialect)
			assert.Equal(t, tt.dsn, target.DSN)
			assert.Equal(t, tt.inMemory, target.InMemory)
		})
	}
}

func TestParseURLPostgres(t *testing.T) {
	tests := []struct {
		raw string
		dsn string
	}{
		{"postgres://kol:pw@db:5432/kol?sslmode=disable", "postgres://kol:pw@db:5432/kol?sslmode=disable"},
		{"postgresql://kol:pw@db/kol", "postgres://kol:pw@db/kol"},
		{"postgresql+psycopg2://kol:pw@db:5432/kol", "postgres://kol:pw@db:5432/kol"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			target, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, Postgres, target.Dialect)
			assert.Equal(t, tt.dsn, target.DSN)
			assert.False(t, target.InMemory)
		})
	}
}

func TestParseURLMySQL(t *testing.T) {
	for _, raw := range []string{
		"mysql://root:secret@db:3306/kol_bd?timeout=5s",
		"mysql+pymysql://root:secret@db:3306/kol_bd?timeout=5s",
	} {
		t.Run(raw, func(t *testing.T) {
			target, err := ParseURL(raw)
			require.NoError(t, err)
			assert.Equal(t, MySQL, target.Dialect)
			assert.Contains(t, target.DSN, "charset=utf8mb4")

			cfg, err := mysql.ParseDSN(target.DSN)
			require.NoError(t, err)
			assert.Equal(t, "root", cfg.User)
			assert.Equal(t, "secret", cfg.Passwd)
			assert.Equal(t, "tcp", cfg.Net)
			assert.Equal(t, "db:3306", cfg.Addr)
			assert.Equal(t, "kol_bd", cfg.DBName)
			assert.True(t, cfg.ParseTime)
			assert.True(t, cfg.MultiStatements)
			assert.Equal(t, time.UTC, cfg.Loc)
			assert.Equal(t, 5*time.Second, cfg.Timeout)
		})
	}
}

func TestParseURLInvalid(t *testing.T) {
	for _, raw := range []string{
		"./kol_bd_tool.db",
		"oracle://scott:tiger@db/orcl",
		"mysql://root:secret@db:bad-port/kol",
	} {
		_, err := ParseURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestOpenInMemoryUsesSingleConnection(t *testing.T) {
	target, err := ParseURL("sqlite://")
	require.NoError(t, err)
	db, err := Open(target, config.DBConfig{MaxOpen: 10}, false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	// 同一连接上创建的表对后续查询可见
	require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO t (id) VALUES (1)").Error)
	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM t").Scan(&n).Error)
	assert.Equal(t, int64(1), n)
}
