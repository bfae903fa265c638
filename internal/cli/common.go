package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roboco-io/doc2md/internal/config"
	"github.com/roboco-io/doc2md/internal/ir"
	"github.com/roboco-io/doc2md/internal/parser"
	"github.com/roboco-io/doc2md/internal/parser/msdoc"
)

const envVerbose = "DOC2MD_VERBOSE"

// Exit codes returned by ExitCode.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitPassword = 2 // 비밀번호 없음 또는 불일치
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ce *msdoc.CryptoError
	if errors.As(err, &ce) && (ce.Kind == msdoc.WrongPassword || ce.Kind == msdoc.NoPassword) {
		return ExitPassword
	}
	return ExitError
}

// decodeFlags are the decoding flags shared by extract, convert and info.
type decodeFlags struct {
	password        string
	charset         string
	defaultCodepage string
	noHeaders       bool
	noTextBoxes     bool
}

func (f *decodeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.password, "password", "p", "", "암호화된 문서의 비밀번호")
	fs.StringVar(&f.charset, "charset", "", "모든 8비트 텍스트에 강제할 코드 페이지 (예: 1251)")
	fs.StringVar(&f.defaultCodepage, "default-codepage", "", "언어를 알 수 없을 때 사용할 코드 페이지")
	fs.BoolVar(&f.noHeaders, "no-headers", false, "머리글/바닥글 제외")
	fs.BoolVar(&f.noTextBoxes, "no-textboxes", false, "글상자 제외")
}

// apply overrides cfg with the flags set on cmd.
func (f *decodeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("password") {
		cfg.Password = f.password
	}
	if fs.Changed("charset") {
		cfg.Decode.Charset = f.charset
	}
	if fs.Changed("default-codepage") {
		cfg.Decode.DefaultCodepage = f.defaultCodepage
	}
	if f.noHeaders {
		cfg.Decode.Headers = false
	}
	if f.noTextBoxes {
		cfg.Decode.TextBoxes = false
	}
}

// loadConfig reads the configuration from --config, $DOC2MD_CONFIG or the
// default location.
func loadConfig() (*config.Config, error) {
	var (
		loader *config.Loader
		err    error
	)
	if cfgFile != "" {
		loader = config.NewLoaderWithPath(cfgFile)
	} else if loader, err = config.NewLoaderFromEnv(); err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	return cfg, nil
}

// newLogger returns a text logger on w at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelWarn
	}
	if verbose || config.GetEnvBool(envVerbose) {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// checkInput verifies that path exists and looks like a Word binary file.
func checkInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
		}
		return fmt.Errorf("파일을 열 수 없습니다: %w", err)
	}
	defer f.Close()

	if parser.DetectFormat(path) == parser.FormatDOC {
		return nil
	}
	// 확장자가 다르면 OLE2 시그니처로 판단
	format, err := parser.DetectFormatFromReader(f)
	if err != nil || format == parser.FormatUnknown {
		return fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}
	return nil
}

// parseDocument decodes path into IR.
func parseDocument(path string, opts parser.Options) (*ir.Document, *msdoc.Result, error) {
	if err := checkInput(path); err != nil {
		return nil, nil, err
	}

	p, err := msdoc.New(path, opts)
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()

	doc, err := p.Parse()
	if err != nil {
		return nil, nil, describeError(err)
	}
	return doc, p.Result(), nil
}

// describeError adds a user-facing message to decoding errors.
func describeError(err error) error {
	var ce *msdoc.CryptoError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case msdoc.WrongPassword:
			return fmt.Errorf("비밀번호가 올바르지 않습니다. --password 로 다시 시도하세요: %w", err)
		case msdoc.NoPassword:
			return fmt.Errorf("암호화된 문서입니다. --password 또는 DOC2MD_PASSWORD 로 비밀번호를 지정하세요: %w", err)
		case msdoc.UnsupportedCipher:
			return fmt.Errorf("지원하지 않는 암호화 방식입니다: %w", err)
		}
	}
	if errors.Is(err, msdoc.ErrUnsupportedVersion) {
		return fmt.Errorf("지원하지 않는 Word 버전입니다 (Word 6 이상 필요): %w", err)
	}
	return fmt.Errorf("문서 파싱 실패: %w", err)
}

// reportStats logs recovered anomalies.
func reportStats(log *slog.Logger, path string, res *msdoc.Result) {
	if res == nil || res.Stats.Clean() {
		return
	}
	log.Warn("문서에서 손상된 레코드를 건너뛰었습니다",
		slog.String("file", path),
		slog.Int("truncated", res.Stats.TruncatedRecords),
		slog.Int("out_of_range", res.Stats.OutOfRangePositions),
		slog.Int("unknown_controls", res.Stats.UnknownControlCodes))
}
