package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type ConstraintKind int

const (
	UniqueViolation ConstraintKind = iota + 1
	ForeignKeyViolation
	CheckViolation
	NotNullViolation
)

func (k ConstraintKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique"
	case ForeignKeyViolation:
		return "foreign_key"
	case CheckViolation:
		return "check"
	case NotNullViolation:
		return "not_null"
	default:
		return "unknown"
	}
}

// ConstraintError 存储层拒绝写入时的统一错误
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint violated: %s", e.Kind, e.Constraint)
	}
	return fmt.Sprintf("%s constraint violated", e.Kind)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// AsConstraintError 识别三种驱动的约束错误，非约束错误返回 nil
func AsConstraintError(err error) *ConstraintError {
	if err == nil {
		return nil
	}

	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		kind := ConstraintKind(0)
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			kind = UniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			kind = ForeignKeyViolation
		case sqlite3.ErrConstraintCheck:
			kind = CheckViolation
		case sqlite3.ErrConstraintNotNull:
			kind = NotNullViolation
		}
		if kind == 0 {
			return nil
		}
		// "CHECK constraint failed: chk_quality_score"
		_, name, _ := strings.Cut(sqliteErr.Error(), "failed: ")
		return &ConstraintError{Kind: kind, Constraint: name, Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		kind := ConstraintKind(0)
		switch pqErr.Code {
		case "23505":
			kind = UniqueViolation
		case "23503":
			kind = ForeignKeyViolation
		case "23514":
			kind = CheckViolation
		case "23502":
			kind = NotNullViolation
		}
		if kind == 0 {
			return nil
		}
		name := pqErr.Constraint
		if name == "" && kind == NotNullViolation {
			name = pqErr.Column
		}
		return &ConstraintError{Kind: kind, Constraint: name, Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		kind := ConstraintKind(0)
		switch myErr.Number {
		case 1062:
			kind = UniqueViolation
		case 1451, 1452:
			kind = ForeignKeyViolation
		case 3819:
			kind = CheckViolation
		case 1048:
			kind = NotNullViolation
		}
		if kind == 0 {
			return nil
		}
		return &ConstraintError{Kind: kind, Constraint: quoted(myErr.Message), Err: err}
	}

	return nil
}

// quoted 取出 MySQL 错误信息里最后一对单引号中的内容
// "Check constraint 'chk_quality_score' is violated." -> chk_quality_score
func quoted(msg string) string {
	end := strings.LastIndex(msg, "'")
	if end <= 0 {
		return ""
	}
	start := strings.LastIndex(msg[:end], "'")
	if start < 0 {
		return ""
	}
	return msg[start+1 : end]
}

func IsConstraint(err error, kind ConstraintKind) bool {
	ce := AsConstraintError(err)
	return ce != nil && ce.Kind == kind
}
