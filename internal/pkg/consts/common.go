package consts

const (
	MimePrefixImage = "image"
)

const (
	// ExchangeName 模板变量 {{exchange_name}} 的取值
	ExchangeName = "KCEX"
	// TwitterProfileURL 拼接 KOL 主页地址
	TwitterProfileURL = "https://twitter.com/"
)

const (
	DefaultPageSize   = 10
	MaxPageSize       = 100
	MaxAvatarSize     = 5 << 20
	AvatarDimension   = 256
	MaxBatchImport    = 100
	MaxBatchTranslate = 100
)
