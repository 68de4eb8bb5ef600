// Package server は、ドキュメントルートを配信するローカルHTTPサーバーを管理します。
//
// このパッケージは、ポートの確保、HTTPサーバーの起動と停止、
// 静的ファイルの配信を担当します。
//
// 責務:
//   - 範囲 [PortMin, PortMax] から空きポートを確保する（portalloc）
//   - 各リクエストをresponderに渡し、Content-Lengthを付けて返す
//   - 1リクエストにつき1行のアクセスログを出力する
//   - 停止時にリスナーを解放する
//
// 仕様:
//   - ディスパッチはgin、並行処理はnet/httpの接続ごとのゴルーチン
//   - リクエスト間で共有する書き込み可能な状態はない
//   - ステータスは 200 / 403 / 404 / 500 のみ
//   - TLS、ディレクトリ一覧、Range、キャッシュ用ヘッダーには対応しない
package server
