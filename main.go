package main

import (
	"fmt"
	"os"

	"webwall/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// ポートを確保できなかった場合もここで終了し、表示側は開かれない
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
