package util

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/liuzl/gocc"
	_ "golang.org/x/image/webp"
)

// ResizeAvatar 解码任意支持的图片，居中裁剪为 size×size 的 JPEG
func ResizeAvatar(r io.Reader, size int) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	s2tOnce sync.Once
	s2t     *gocc.OpenCC
	s2tErr  error
)

// IsTraditionalChinese zh-TW / zh-HK / zh-Hant 使用繁体
func IsTraditionalChinese(lang string) bool {
	l := strings.ToLower(lang)
	return l == "zh-tw" || l == "zh-hk" || l == "zh-hant" || strings.HasPrefix(l, "zh-hant-")
}

// ToTraditional 简体转繁体，字典加载失败时原样返回
func ToTraditional(s string) string {
	s2tOnce.Do(func() {
		s2t, s2tErr = gocc.New("s2t")
	})
	if s2tErr != nil {
		return s
	}
	out, err := s2t.Convert(s)
	if err != nil {
		return s
	}
	return out
}
