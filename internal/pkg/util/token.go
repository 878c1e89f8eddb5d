package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken 生成 n 字节随机数的十六进制串
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
