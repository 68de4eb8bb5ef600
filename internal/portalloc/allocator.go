// Package portalloc は固定範囲から空きポートを試行で選び、リッスンソケットを確保する。
//
// 候補ポートを順に bind+listen し、最初に成功したものを返す。
// 失敗した候補のソケットはその場で解放され、試行回数は範囲のポート数を超えない。
// 範囲をすべて試して失敗した場合は ErrExhausted を返す。
package portalloc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strconv"

	"github.com/rs/zerolog"
)

// ErrExhausted は範囲内のどのポートも確保できなかったことを表す
var ErrExhausted = errors.New("空きポートが見つかりません")

// Strategy は候補ポートを試す順序
type Strategy int

const (
	Sequential Strategy = iota // 下端から順に試す
	Random                     // 範囲のランダムな順列を試す
)

// ParseStrategy は設定値の文字列をStrategyに変換する
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "sequential":
		return Sequential, nil
	case "random":
		return Random, nil
	default:
		return Sequential, fmt.Errorf("不明な探索方式: %q", s)
	}
}

// ListenFunc はソケットを作成してリッスンを開始する関数
type ListenFunc func(ctx context.Context, network, address string) (net.Listener, error)

// Allocator は範囲 [Min, Max] から空きポートを探す
type Allocator struct {
	Host     string
	Min      int
	Max      int
	Strategy Strategy

	// Listen はテストで差し替え可能。nilならnet.ListenConfigを使う
	Listen ListenFunc
	Logger zerolog.Logger
}

// New は新しいAllocatorを作成する
func New(host string, lo, hi int, strategy Strategy, logger zerolog.Logger) *Allocator {
	return &Allocator{
		Host:     host,
		Min:      lo,
		Max:      hi,
		Strategy: strategy,
		Logger:   logger,
	}
}

// Candidates は試行順に並べた候補ポートを返す。各ポートはちょうど1回ずつ現れる
func (a *Allocator) Candidates() []int {
	if a.Max < a.Min {
		return nil
	}

	n := a.Max - a.Min + 1
	ports := make([]int, n)

	switch a.Strategy {
	case Random:
		for i, off := range rand.Perm(n) {
			ports[i] = a.Min + off
		}
	default:
		for i := range ports {
			ports[i] = a.Min + i
		}
	}

	return ports
}

// Allocate は候補ポートを順に試し、最初にリッスンできたソケットとポート番号を返す
func (a *Allocator) Allocate(ctx context.Context) (net.Listener, int, error) {
	listen := a.Listen
	if listen == nil {
		var lc net.ListenConfig
		listen = lc.Listen
	}

	candidates := a.Candidates()
	var lastErr error

	for _, port := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		addr := net.JoinHostPort(a.Host, strconv.Itoa(port))
		ln, err := listen(ctx, "tcp", addr)
		if err != nil {
			// 異常な実装が両方を返した場合もソケットを残さない
			if ln != nil {
				_ = ln.Close()
			}
			lastErr = err
			a.Logger.Debug().Err(err).Int("port", port).Msg("ポートが使用できません。次の候補を試します")
			continue
		}

		a.Logger.Debug().Int("port", port).Msg("ポートを確保しました")
		return ln, port, nil
	}

	if lastErr != nil {
		return nil, 0, fmt.Errorf("%w: %d-%d (%d回試行): %v", ErrExhausted, a.Min, a.Max, len(candidates), lastErr)
	}
	return nil, 0, fmt.Errorf("%w: %d-%d", ErrExhausted, a.Min, a.Max)
}
