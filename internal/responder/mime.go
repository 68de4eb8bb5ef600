package responder

import "strings"

// DefaultContentType は表にない拡張子に使う
const DefaultContentType = "application/octet-stream"

// 拡張子は大文字小文字を区別する。".CSS" は表にないので octet-stream になる
var contentTypes = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"js":   "application/javascript",
	"css":  "text/css",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Extension はパス中の最後の "." より後ろを返す。"." がなければ空文字
func Extension(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i+1:]
}

// ContentType は拡張子からContent-Typeを決める
func ContentType(path string) string {
	if ct, ok := contentTypes[Extension(path)]; ok {
		return ct
	}
	return DefaultContentType
}
