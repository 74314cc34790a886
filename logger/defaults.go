package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

type DefaultLogger struct {
	zl       zerolog.Logger
	debug    bool
	safeLogs bool
}

var Default = New(os.Stdout, os.Getenv("DEBUG") == "true", os.Getenv("SAFE_LOGS") == "true")

var urlRegex = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*:\/\/[a-zA-Z0-9+%/.\-:_?&=#@+~]+`)

// New builds a console logger writing to out. With safeLogs set, anything
// that looks like a URL is replaced before it reaches the output.
func New(out io.Writer, debug bool, safeLogs bool) *DefaultLogger {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		NoColor:    out != os.Stdout,
	}

	return &DefaultLogger{
		zl:       zerolog.New(writer).With().Timestamp().Logger(),
		debug:    debug,
		safeLogs: safeLogs,
	}
}

func RedactURLs(text string) string {
	return urlRegex.ReplaceAllString(text, "[redacted url]")
}

func (l *DefaultLogger) clean(text string) string {
	if l.safeLogs {
		return RedactURLs(text)
	}
	return text
}

func (l *DefaultLogger) Log(format string) {
	l.zl.Info().Msg(l.clean(format))
}

func (l *DefaultLogger) Logf(format string, v ...any) {
	l.zl.Info().Msg(l.clean(fmt.Sprintf(format, v...)))
}

func (l *DefaultLogger) Debug(format string) {
	if l.debug {
		l.zl.Debug().Msg(l.clean(format))
	}
}

func (l *DefaultLogger) Debugf(format string, v ...any) {
	if l.debug {
		l.zl.Debug().Msg(l.clean(fmt.Sprintf(format, v...)))
	}
}

func (l *DefaultLogger) Error(format string) {
	l.zl.Error().Msg(l.clean(format))
}

func (l *DefaultLogger) Errorf(format string, v ...any) {
	l.zl.Error().Msg(l.clean(fmt.Sprintf(format, v...)))
}

func (l *DefaultLogger) Warn(format string) {
	l.zl.Warn().Msg(l.clean(format))
}

func (l *DefaultLogger) Warnf(format string, v ...any) {
	l.zl.Warn().Msg(l.clean(fmt.Sprintf(format, v...)))
}

func (l *DefaultLogger) Fatal(format string) {
	l.zl.Fatal().Msg(l.clean(format))
}

func (l *DefaultLogger) Fatalf(format string, v ...any) {
	l.zl.Fatal().Msg(l.clean(fmt.Sprintf(format, v...)))
}
