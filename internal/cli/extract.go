package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roboco-io/doc2md/internal/render"
)

var (
	extractOutput        string
	extractFormat        string
	extractPrettyPrint   bool
	extractIncludeHidden bool
	extractNoFrontMatter bool
	extractDecode        decodeFlags
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "DOC 문서를 Markdown, 텍스트 또는 JSON으로 추출",
	Long: `Word 바이너리 문서(.doc)를 파싱하여 지정한 형식으로 출력합니다.

출력 형식:
  markdown  제목, 목록, 표, 각주를 Markdown으로 (기본)
  text      일반 텍스트
  json      IR(Intermediate Representation) 전체

예시:
  doc2md extract report.doc
  doc2md extract report.doc -o report.md
  doc2md extract report.doc --format json
  doc2md extract secret.doc --password 'Pa$$w0rd'
  doc2md extract russian.doc --charset 1251`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "출력 형식 (json, markdown, text; 기본: 설정 파일)")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")
	extractCmd.Flags().BoolVar(&extractIncludeHidden, "include-hidden", false, "숨김 텍스트와 삭제 표시된 텍스트 포함")
	extractCmd.Flags().BoolVar(&extractNoFrontMatter, "no-front-matter", false, "Markdown 앞의 YAML 메타데이터 생략")
	extractDecode.register(extractCmd)

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractDecode.apply(cmd, cfg)
	if extractFormat != "" {
		cfg.Output.Format = extractFormat
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Output.Pretty = extractPrettyPrint
	}
	if extractIncludeHidden {
		cfg.Output.IncludeHidden = true
	}

	renderer, err := render.Get(cfg.Output.Format)
	if err != nil {
		return err
	}

	log := newLogger(cmd.ErrOrStderr(), cfg)
	opts := cfg.ParserOptions()
	opts.Logger = log

	doc, res, err := parseDocument(inputPath, opts)
	if err != nil {
		return err
	}
	reportStats(log, inputPath, res)

	ropts := renderOptions(cfg.Output.Pretty, cfg.Output.IncludeHidden, !extractNoFrontMatter)
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc, ropts); err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if extractOutput == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(extractOutput, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "추출 완료: %s\n", extractOutput)
	return nil
}

func renderOptions(pretty, includeHidden, frontMatter bool) render.Options {
	return render.Options{
		Pretty:        pretty,
		IncludeHidden: includeHidden,
		FrontMatter:   frontMatter,
	}
}
