package consts

const (
	TokenBlacklistKey   = "auth:blacklist:"
	ExtensionUserKey    = "extension:user:"
	ExtensionTokenKey   = "extension:token:"
	TranslationCacheKey = "translation:cache:"
)
