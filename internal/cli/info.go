package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/doc2md/internal/parser/msdoc"
)

var (
	infoJSON   bool
	infoDecode decodeFlags
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "DOC 문서 정보 표시",
	Long: `문서 헤더(FIB), 암호화 방식, 문서 요약 정보를 표시합니다.

암호화된 문서는 비밀번호 없이도 버전과 암호화 방식을 보여 주며,
비밀번호를 지정하면 본문 크기와 구조 정보까지 표시합니다.

예시:
  doc2md info report.doc
  doc2md info secret.doc --password 'Pa$$w0rd'
  doc2md info report.doc --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "JSON으로 출력")
	infoDecode.register(infoCmd)

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := checkInput(path); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	infoDecode.apply(cmd, cfg)

	po := cfg.ParserOptions()
	po.Logger = newLogger(cmd.ErrOrStderr(), cfg)
	opts, err := msdoc.OptionsFrom(po)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("DOC 파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	info, err := msdoc.Inspect(f, opts)
	if err != nil {
		return describeError(err)
	}

	if infoJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	writeInfo(cmd.OutOrStdout(), path, info)
	return nil
}

func writeInfo(out io.Writer, path string, info *msdoc.Info) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	row := func(k string, v any) { fmt.Fprintf(w, "%s\t%v\n", k, v) }

	row("파일", path)
	row("형식", fmt.Sprintf("%s (nFib %d)", info.VersionName, info.NFib))
	row("언어 (LID)", fmt.Sprintf("0x%04X", info.Lid))
	if info.Encrypted {
		row("암호화", info.Cipher)
	} else {
		row("암호화", "없음")
	}
	if info.Locked {
		row("상태", "잠김 (비밀번호 필요)")
	}

	s := info.Summary
	for _, kv := range []struct{ k, v string }{
		{"제목", s.Title},
		{"작성자", s.Author},
		{"주제", s.Subject},
		{"키워드", s.Keywords},
		{"마지막 저장", s.LastAuthor},
		{"프로그램", s.AppName},
		{"작성일", s.Created},
		{"수정일", s.Modified},
	} {
		if kv.v != "" {
			row(kv.k, kv.v)
		}
	}
	if info.Locked {
		return
	}

	row("테이블 스트림", info.TableStream)
	row("기본 코드 페이지", int(info.Codepage))
	row("빠른 저장", info.Complex)
	row("본문 글자 수", info.CcpText)
	row("각주 / 미주 / 메모", fmt.Sprintf("%d / %d / %d", info.Footnotes, info.Endnotes, info.Comments))
	row("머리글 글자 수", info.CcpHdd)
	row("글상자 글자 수", info.CcpTxbx)
	row("조각 / 구역", fmt.Sprintf("%d / %d", info.Pieces, info.Sections))
	row("글꼴 / 스타일", fmt.Sprintf("%d / %d", info.Fonts, info.Styles))
}
