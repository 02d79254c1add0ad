package main

import (
	"os"

	"github.com/easyops/contextslots-go/cmd/slotctl/commands"
)

// 版本信息，构建时注入
var (
	version = "dev"
	commit  = "none"
)

func main() {
	commands.SetVersionInfo(version, commit)

	// 错误已由 printer 输出
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
