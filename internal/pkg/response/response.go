package response

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/pkg/database"
	"KolBD/internal/pkg/util"
	"KolBD/internal/service"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	Created             = 201
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	Unprocessable       = 422
	TooManyRequests     = 429
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

func SuccessCreated(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.Response{
		Code:    Created,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装，HTTP 状态码与业务码一致
func Fail(c *gin.Context, businessCode int, message string) {
	status := businessCode
	if http.StatusText(status) == "" {
		status = http.StatusOK
	}
	c.AbortWithStatusJSON(status, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, Unprocessable, "参数错误")
		return
	}

	var vErr *util.ValidationError
	if errors.As(err, &vErr) {
		Fail(c, Unprocessable, vErr.Error())
		return
	}

	// gin 绑定使用标准库解码，goccy 用于其余场景，两种错误类型都要识别
	var (
		unmarshalTypeError    *json.UnmarshalTypeError
		stdUnmarshalTypeError *stdjson.UnmarshalTypeError
	)
	if errors.As(err, &unmarshalTypeError) || errors.As(err, &stdUnmarshalTypeError) {
		Fail(c, Unprocessable, "Json错误")
		return
	}

	var (
		syntaxError    *json.SyntaxError
		stdSyntaxError *stdjson.SyntaxError
	)
	if errors.As(err, &syntaxError) || errors.As(err, &stdSyntaxError) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		Fail(c, BadRequest, "Json格式错误")
		return
	}

	if code, ok := service.CodeOf(err); ok {
		Fail(c, code, err.Error())
		return
	}

	if ce := database.AsConstraintError(err); ce != nil {
		switch ce.Kind {
		case database.UniqueViolation:
			Fail(c, Conflict, "数据已存在")
		case database.ForeignKeyViolation:
			Fail(c, BadRequest, "关联数据不存在")
		default:
			Fail(c, Unprocessable, "数据不满足约束: "+ce.Constraint)
		}
		return
	}

	log.ErrorContext(c.Request.Context(), "Error", "err", err)
	Fail(c, InternalServerError, service.UnExpectedError.Error())
}
