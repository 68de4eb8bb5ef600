// Package responder はリクエストパスとドキュメントルートからHTTPレスポンスを組み立てる。
//
// Respond は状態を持たない純粋な関数で、リクエスト間で何も共有しない。
// 配信の手順:
//   - パスに ".." を含む場合は 403
//   - "/" は "/index.html" に読み替える
//   - ルートとパスを連結したファイルが通常ファイルでなければ 404
//   - ファイル全体をメモリに読み込み、読み込みに失敗した場合は 500
//   - 拡張子から Content-Type を決め、200 で本文をそのまま返す
//
// ".." の検査は文字列としての検査であり、正規化したパスの比較ではない。
// シンボリックリンク経由でルート外を指すファイルは配信されうる。
// ループバック上で単一のブラウザに配信する用途を前提としている。
package responder

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Kind はレスポンスの分類
type Kind int

const (
	KindOK          Kind = iota // 正常に配信
	KindForbidden               // パスに ".." を含む
	KindNotFound                // ファイルが存在しない
	KindReadFailure             // ファイルを開けない、または読み切れない
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindReadFailure:
		return "read_failure"
	default:
		return "unknown"
	}
}

// エラー時の本文
const (
	BodyForbidden   = "403 Forbidden"
	BodyNotFound    = "404 Not Found"
	BodyServerError = "500 Internal Server Error"

	ContentTypeText = "text/plain; charset=utf-8"
)

// IndexFile は "/" へのリクエストで返すファイル名
const IndexFile = "index.html"

// Response は送信前に完全に組み立てられたレスポンス
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	Kind        Kind

	// Err は失敗の原因。ログ用でクライアントには送らない
	Err error
}

// ContentLength は本文の正確なバイト数を返す
func (r Response) ContentLength() int {
	return len(r.Body)
}

var errTraversal = errors.New("パスに親ディレクトリ参照が含まれています")

// Respond はリクエストパスに対するレスポンスを返す
func Respond(root, requestPath string) Response {
	if strings.Contains(requestPath, "..") {
		return failure(http.StatusForbidden, KindForbidden, BodyForbidden,
			fmt.Errorf("%w: %q", errTraversal, requestPath))
	}

	if requestPath == "" || requestPath == "/" {
		requestPath = "/" + IndexFile
	}
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}

	filePath := root + filepath.FromSlash(requestPath)

	info, err := os.Stat(filePath)
	if err != nil {
		if notFound(err) {
			return failure(http.StatusNotFound, KindNotFound, BodyNotFound, err)
		}
		return failure(http.StatusInternalServerError, KindReadFailure, BodyServerError, err)
	}
	if !info.Mode().IsRegular() {
		return failure(http.StatusNotFound, KindNotFound, BodyNotFound,
			fmt.Errorf("通常ファイルではありません: %s", filePath))
	}

	body, err := readFile(filePath)
	if err != nil {
		return failure(http.StatusInternalServerError, KindReadFailure, BodyServerError, err)
	}

	return Response{
		Status:      http.StatusOK,
		ContentType: ContentType(filePath),
		Body:        body,
		Kind:        KindOK,
	}
}

// notFound はstatの失敗がファイルの不在を意味するかを判定する
// 長すぎる名前、NULを含むパス、シンボリックリンクのループは開けるファイルを指さないので不在として扱う
func notFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ENAMETOOLONG) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.ELOOP)
}

// readFile はファイル全体を読み込む
// 開いた時点のサイズ分を読み切れなければエラーとし、途中までのバッファは返さない
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ファイルを開けません: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ファイル情報を取得できません: %w", err)
	}

	buf := make([]byte, info.Size())
	n, err := io.ReadFull(f, buf)
	if err != nil {
		return nil, fmt.Errorf("ファイルを読み切れません (%d/%d バイト): %w", n, len(buf), err)
	}

	return buf, nil
}

func failure(status int, kind Kind, body string, err error) Response {
	return Response{
		Status:      status,
		ContentType: ContentTypeText,
		Body:        []byte(body),
		Kind:        kind,
		Err:         err,
	}
}
