package logger

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const logstashDialTimeout = 5 * time.Second

var log = zerolog.Nop()

// Options описывает глобальный логгер сервиса
// LogstashAddr опционален, пустое значение оставляет только stdout
type Options struct {
	Service      string
	Level        string
	LogstashAddr string
}

// Setup настраивает глобальный логгер
// Если Logstash недоступен, логгер все равно пишет в stdout, а ошибка возвращается вызывающему
func Setup(opts Options) error {
	if opts.LogstashAddr == "" {
		InitWithWriter(opts.Service, opts.Level, os.Stdout)
		return nil
	}

	conn, err := net.DialTimeout("tcp", opts.LogstashAddr, logstashDialTimeout)
	if err != nil {
		InitWithWriter(opts.Service, opts.Level, os.Stdout)
		return fmt.Errorf("failed to connect to logstash at %s: %w", opts.LogstashAddr, err)
	}

	InitWithWriter(opts.Service, opts.Level, zerolog.MultiLevelWriter(os.Stdout, conn))
	return nil
}

// InitWithWriter настраивает глобальный логгер с произвольным writer (используется в тестах)
// Неизвестный уровень превращается в info
func InitWithWriter(service string, level string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Debug() *zerolog.Event { return log.Debug() }
func Fatal() *zerolog.Event { return log.Fatal() }

func With() zerolog.Context {
	return log.With()
}
