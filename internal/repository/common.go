package repository

import (
	"KolBD/internal/pkg/database"
	"errors"
	"strings"
)

// ErrNoRowsAffected 更新时目标行已不存在（读取之后被并发删除）
var ErrNoRowsAffected = errors.New("no rows affected")

// Page 分页参数，Page 从 1 开始
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// wrapErr 约束类错误统一转成 *database.ConstraintError，便于服务层判断
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if ce := database.AsConstraintError(err); ce != nil {
		return ce
	}
	return err
}

// likeEscape 与 likePattern 配套使用：col LIKE ? ESCAPE '!'
const likeEscape = " LIKE ? ESCAPE '!'"

// likePattern 转义 LIKE 通配符，转小写后两侧加 %
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
