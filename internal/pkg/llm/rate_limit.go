package llm

import (
	"golang.org/x/sync/semaphore"
)

// TextSem 同时在途的模型请求上限，批量改写与翻译共享
var (
	TextWeight = int64(5)
	TextSem    = semaphore.NewWeighted(TextWeight)
)
