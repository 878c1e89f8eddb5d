package database

import (
	"KolBD/internal/api/config"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAsConstraintErrorPostgres(t *testing.T) {
	tests := []struct {
		name       string
		err        *pq.Error
		kind       ConstraintKind
		constraint string
	}{
		{"unique", &pq.Error{Code: "23505", Constraint: "uq_user_tag_name"}, UniqueViolation, "uq_user_tag_name"},
		{"foreign key", &pq.Error{Code: "23503", Constraint: "contact_logs_kol_id_fkey"}, ForeignKeyViolation, "contact_logs_kol_id_fkey"},
		{"check", &pq.Error{Code: "23514", Constraint: "chk_quality_score"}, CheckViolation, "chk_quality_score"},
		{"not null falls back to column", &pq.Error{Code: "23502", Column: "username"}, NotNullViolation, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := AsConstraintError(fmt.Errorf("insert kol: %w", tt.err))
			require.NotNil(t, ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.constraint, ce.Constraint)
			assert.ErrorIs(t, ce, tt.err)
		})
	}

	assert.Nil(t, AsConstraintError(&pq.Error{Code: "42P01"}))
}

func TestAsConstraintErrorMySQL(t *testing.T) {
	tests := []struct {
		name       string
		err        *mysql.MySQLError
		kind       ConstraintKind
		constraint string
	}{
		{"unique", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-vip' for key 'tags.uq_user_tag_name'"}, UniqueViolation, "tags.uq_user_tag_name"},
		{"parent missing", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails"}, ForeignKeyViolation, ""},
		{"child exists", &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}, ForeignKeyViolation, ""},
		{"check", &mysql.MySQLError{Number: 3819, Message: "Check constraint 'chk_quality_score' is violated."}, CheckViolation, "chk_quality_score"},
		{"not null", &mysql.MySQLError{Number: 1048, Message: "Column 'username' cannot be null"}, NotNullViolation, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := AsConstraintError(pkgerrors.Wrap(tt.err, "create"))
			require.NotNil(t, ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.constraint, ce.Constraint)
		})
	}

	assert.Nil(t, AsConstraintError(&mysql.MySQLError{Number: 1146, Message: "Table 'kol.x' doesn't exist"}))
}

func TestAsConstraintErrorSQLite(t *testing.T) {
	target, err := ParseURL("sqlite://")
	require.NoError(t, err)
	db, err := Open(target, config.DBConfig{}, false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE parent (id INTEGER PRIMARY KEY)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE child (
		id INTEGER PRIMARY KEY,
		parent_id INTEGER NOT NULL REFERENCES parent(id),
		name TEXT NOT NULL UNIQUE,
		score INTEGER CONSTRAINT chk_score CHECK (score BETWEEN 0 AND 100)
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO parent (id) VALUES (1)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO child (parent_id, name, score) VALUES (1, 'a', 50)`).Error)

	tests := []struct {
		name       string
		stmt       string
		kind       ConstraintKind
		constraint string
	}{
		{"unique", `INSERT INTO child (parent_id, name) VALUES (1, 'a')`, UniqueViolation, "child.name"},
		{"foreign key", `INSERT INTO child (parent_id, name) VALUES (9, 'b')`, ForeignKeyViolation, ""},
		{"check", `INSERT INTO child (parent_id, name, score) VALUES (1, 'c', 101)`, CheckViolation, "chk_score"},
		{"not null", `INSERT INTO child (parent_id) VALUES (1)`, NotNullViolation, "child.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.Exec(tt.stmt).Error
			require.Error(t, err)
			ce := AsConstraintError(err)
			require.NotNil(t, ce, err.Error())
			assert.Equal(t, tt.kind, ce.Kind)
			if tt.constraint != "" {
				assert.Equal(t, tt.constraint, ce.Constraint)
			}
			assert.True(t, IsConstraint(err, tt.kind))
		})
	}
}

func TestAsConstraintErrorPassThrough(t *testing.T) {
	assert.Nil(t, AsConstraintError(nil))
	assert.Nil(t, AsConstraintError(gorm.ErrRecordNotFound))
	assert.False(t, IsConstraint(gorm.ErrRecordNotFound, UniqueViolation))

	// 已经转换过的错误原样返回
	ce := &ConstraintError{Kind: CheckViolation, Constraint: "chk_status"}
	assert.Same(t, ce, AsConstraintError(pkgerrors.Wrap(ce, "update")))
	assert.False(t, IsConstraint(ce, UniqueViolation))
	assert.Equal(t, "check constraint violated: chk_status", ce.Error())
	assert.Equal(t, "foreign_key constraint violated", (&ConstraintError{Kind: ForeignKeyViolation}).Error())
}

func TestQuoted(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Check constraint 'chk_quality_score' is violated.", "chk_quality_score"},
		{"Duplicate entry 'x' for key 'kols.uq_user_username'", "kols.uq_user_username"},
		{"Column 'username' cannot be null", "username"},
		{"no quotes at all", ""},
		{"'", ""},
		{"dangling ' quote", ""},
		{"''", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quoted(tt.msg), tt.msg)
	}
}
