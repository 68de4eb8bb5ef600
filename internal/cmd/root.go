package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"webwall/internal/config"
	"webwall/internal/host"
	"webwall/internal/logging"
	"webwall/internal/site"
)

// バージョン情報
const (
	AppName = "webwall"
	Version = "0.1.0"
)

// runFunc は設定が確定した後に呼ばれる本体
type runFunc func(cmd *cobra.Command, cfg *config.Config) error

// NewRootCmd はwebwallのルートコマンドを作成する
func NewRootCmd() *cobra.Command {
	return newRootCmd(run)
}

// run はサーバーを起動し、表示側が閉じられるまで待つ
func run(cmd *cobra.Command, cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)

	logger, closer := logging.New(cfg.Logging, cmd.ErrOrStderr())
	defer closer.Close()

	surface := host.NewSignalSurface(cfg.Surface, cmd.OutOrStdout(), logger)
	defer surface.Close()

	return host.New(cfg, surface, logger).Run(cmd.Context())
}

func newRootCmd(run runFunc) *cobra.Command {
	cfg := config.Default()
	var demo bool

	rootCmd := &cobra.Command{
		Use:   AppName + " [document-root]",
		Short: "ローカルのWebページを全画面の背景として配信する",
		Long: fmt.Sprintf(`%s - ローカルのWebページを全画面の背景として配信する

document-root 以下のファイルを %d-%d の空きポートで配信し、
表示側に http://localhost:<port>/ を渡します。`, AppName, config.DefaultPortMin, config.DefaultPortMax),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if demo {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if demo {
				root, cleanup, err := site.ExtractTemp()
				if err != nil {
					return fmt.Errorf("デモページの展開に失敗: %w", err)
				}
				defer cleanup()
				cfg.Server.DocumentRoot = root
			} else {
				root, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("ドキュメントルートを解決できません: %w", err)
				}
				cfg.Server.DocumentRoot = root
			}

			cfg.Logging.LogToFile = cmd.Flags().Changed("log-file")

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("設定の検証に失敗: %w", err)
			}

			return run(cmd, cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "リッスンするホスト")
	flags.IntVar(&cfg.Server.PortMin, "port-min", cfg.Server.PortMin, "ポート探索範囲の下端")
	flags.IntVar(&cfg.Server.PortMax, "port-max", cfg.Server.PortMax, "ポート探索範囲の上端")
	flags.StringVar(&cfg.Server.Strategy, "strategy", cfg.Server.Strategy, "ポートの探索順 (sequential, random)")
	flags.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "停止時にリクエスト完了を待つ最大時間")
	flags.BoolVarP(&cfg.Logging.Debug, "debug", "d", false, "デバッグログを出力する")
	flags.StringVar(&cfg.Logging.LogFilePath, "log-file", cfg.Logging.LogFilePath, "ログをローテーション付きでファイルにも書き出す")
	flags.BoolVar(&cfg.Surface.Open, "open", false, "起動後にブラウザでURLを開く")
	flags.StringVar(&cfg.Surface.Command, "open-command", cfg.Surface.Command, "ブラウザを開くコマンド")
	flags.BoolVar(&demo, "demo", false, "組み込みのデモページを配信する")

	return rootCmd
}
