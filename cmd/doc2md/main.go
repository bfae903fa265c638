package main

import (
	"fmt"
	"os"

	"github.com/roboco-io/doc2md/internal/cli"
)

// 빌드 시 -ldflags "-X main.version=..." 로 설정
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "오류:", err)
		os.Exit(cli.ExitCode(err))
	}
}
