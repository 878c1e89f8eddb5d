package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	Unprocessable       = 422
	InternalServerError = 500
	BadGateway          = 502
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid             = errors.New("参数错误")
	ErrUserNotFound             = errors.New("用户不存在")
	ErrEmailExist               = errors.New("邮箱已被注册")
	ErrPasswordIncorrect        = errors.New("邮箱或密码错误")
	ErrCurrentPasswordIncorrect = errors.New("当前密码错误")
	ErrUserInactive             = errors.New("账号已被停用")
	ErrCannotModifySelf         = errors.New("不能修改自己的角色或状态")
	ErrKOLNotFound              = errors.New("KOL 不存在")
	ErrKOLExist                 = errors.New("KOL 已存在")
	ErrTagNotFound              = errors.New("标签不存在")
	ErrTagExist                 = errors.New("标签名已存在")
	ErrTagAlreadyAttached       = errors.New("KOL 已拥有此标签")
	ErrTemplateNotFound         = errors.New("模板不存在")
	ErrContactNotFound          = errors.New("联系记录不存在")
	ErrTweetExist               = errors.New("推文已存在")
	ErrFileNotSupported         = errors.New("不支持的文件类型")
	ErrFileTooLarge             = errors.New("文件过大")
	ErrStorageDisabled          = errors.New("对象存储未配置")
	ErrRedisDisabled            = errors.New("缓存服务未配置")
	ErrLLMDisabled              = errors.New("AI 服务未配置")
	ErrLLMFailed                = errors.New("AI 服务调用失败")
	ErrVariablesLost            = errors.New("改写结果丢失了模板变量")
	ErrExtensionTokenNotFound   = errors.New("扩展 token 不存在")
	UnauthorizedError           = errors.New("未登录或登录已过期")
	ForbiddenError              = errors.New("权限不足")
	UnExpectedError             = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrUserNotFound:             NotFound,
	ErrEmailExist:               Conflict,
	ErrPasswordIncorrect:        Unauthorized,
	ErrCurrentPasswordIncorrect: BadRequest,
	ErrUserInactive:             Forbidden,
	ErrCannotModifySelf:         Forbidden,
	ErrKOLNotFound:              NotFound,
	ErrKOLExist:                 Conflict,
	ErrTagNotFound:              NotFound,
	ErrTagExist:                 Conflict,
	ErrTagAlreadyAttached:       Conflict,
	ErrTemplateNotFound:         NotFound,
	ErrContactNotFound:          NotFound,
	ErrTweetExist:               Conflict,
	ErrFileNotSupported:         BadRequest,
	ErrFileTooLarge:             BadRequest,
	ErrStorageDisabled:          ServiceUnavailable,
	ErrRedisDisabled:            ServiceUnavailable,
	ErrLLMDisabled:              ServiceUnavailable,
	ErrLLMFailed:                BadGateway,
	ErrVariablesLost:            BadGateway,
	ErrExtensionTokenNotFound:   NotFound,
	UnauthorizedError:           Unauthorized,
	ForbiddenError:              Forbidden,
	UnExpectedError:             InternalServerError,
}

// CodeOf 沿 Unwrap 链查找业务错误码
func CodeOf(err error) (int, bool) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return 0, false
}
