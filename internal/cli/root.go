// Package cli implements the doc2md command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "doc2md",
	Short: "Word 6/95, 97-2003 문서(.doc)를 Markdown으로 변환",
	Long: `doc2md는 Word 6/95 및 Word 97-2003 바이너리 문서(.doc)를 읽어
Markdown, 텍스트 또는 JSON(중간 표현)으로 변환합니다.

XOR, RC4, RC4 CryptoAPI로 암호화된 문서는 비밀번호를 지정하면 읽을 수 있습니다.

환경 변수:
  DOC2MD_PASSWORD   암호화된 문서의 비밀번호
  DOC2MD_CONFIG     설정 파일 경로
  DOC2MD_VERBOSE    true이면 디버그 로그 출력`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("doc2md %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "설정 파일 경로 (기본: ~/.doc2md/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "상세 로그 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
