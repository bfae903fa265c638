package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/doc2md/internal/render"
)

var (
	convertOutDir   string
	convertFormat   string
	convertQuiet    bool
	convertContinue bool
	convertDecode   decodeFlags
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "여러 DOC 문서를 파일로 변환",
	Long: `여러 Word 바이너리 문서를 한 번에 변환하여 파일로 저장합니다.

각 입력 파일과 같은 이름에 형식별 확장자(.md, .txt, .json)를 붙여
출력 디렉토리에 저장합니다. 출력 디렉토리를 지정하지 않으면 입력 파일과
같은 디렉토리에 저장합니다.

예시:
  doc2md convert a.doc b.doc
  doc2md convert *.doc -d ./out
  doc2md convert *.doc -d ./out --format text --keep-going`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out-dir", "d", "", "출력 디렉토리 (기본: 입력 파일 위치)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "출력 형식 (json, markdown, text; 기본: 설정 파일)")
	convertCmd.Flags().BoolVarP(&convertQuiet, "quiet", "q", false, "조용한 모드")
	convertCmd.Flags().BoolVar(&convertContinue, "keep-going", false, "실패한 파일이 있어도 계속 진행")
	convertDecode.register(convertCmd)

	rootCmd.AddCommand(convertCmd)
}

var formatExt = map[string]string{
	"markdown": ".md",
	"text":     ".txt",
	"json":     ".json",
}

// outputPath returns where the converted form of input is written.
func outputPath(input, outDir, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	ext, ok := formatExt[format]
	if !ok {
		ext = "." + format
	}
	return filepath.Join(dir, base+ext)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	convertDecode.apply(cmd, cfg)
	if convertFormat != "" {
		cfg.Output.Format = convertFormat
	}

	renderer, err := render.Get(cfg.Output.Format)
	if err != nil {
		return err
	}
	if convertOutDir != "" {
		if err := os.MkdirAll(convertOutDir, 0755); err != nil {
			return fmt.Errorf("출력 디렉토리 생성 실패: %w", err)
		}
	}

	log := newLogger(cmd.ErrOrStderr(), cfg)
	opts := cfg.ParserOptions()
	opts.Logger = log
	ropts := renderOptions(cfg.Output.Pretty, cfg.Output.IncludeHidden, true)

	var failed []string
	var firstErr error
	for _, input := range args {
		if !convertQuiet && verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "입력 파일: %s\n", input)
		}

		err := func() error {
			doc, res, err := parseDocument(input, opts)
			if err != nil {
				return err
			}
			reportStats(log, input, res)

			out := outputPath(input, convertOutDir, renderer.Name())
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("파일 저장 실패: %w", err)
			}
			if err := renderer.Render(f, doc, ropts); err != nil {
				f.Close()
				return fmt.Errorf("출력 포맷팅 실패: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("파일 저장 실패: %w", err)
			}
			if !convertQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "변환 완료: %s -> %s\n", input, out)
			}
			return nil
		}()
		if err == nil {
			continue
		}
		if !convertContinue {
			return fmt.Errorf("%s: %w", input, err)
		}
		if firstErr == nil {
			firstErr = err
		}
		failed = append(failed, input)
		fmt.Fprintf(cmd.ErrOrStderr(), "변환 실패: %s: %v\n", input, err)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d개 파일 변환 실패 (%s): %w", len(failed), strings.Join(failed, ", "), firstErr)
	}
	return nil
}
