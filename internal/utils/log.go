package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/rs/zerolog"
)

// Log is the logger shared by every package of archstrap. It writes to stderr
// until SetLogger is called.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger configures Log to write human readable output to stderr and json
// lines to constants.LogDir. Debug level is enabled by the flag, the
// ARCHSTRAP_DEBUG env var or archstrap.debug on the kernel cmdline.
func SetLogger(debug bool, runID string) {
	level := zerolog.InfoLevel
	if debug || os.Getenv("ARCHSTRAP_DEBUG") != "" || len(ReadCMDLineArg("archstrap.debug")) > 0 {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if err := os.MkdirAll(constants.LogDir, os.ModeDir|os.ModePerm); err == nil {
		f, err := os.OpenFile(filepath.Join(constants.LogDir, "archstrap.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			writers = append(writers, f)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run", runID)
	}
	Log = ctx.Logger()
}

// StageLogger routes yip executor messages to Log.
type StageLogger struct{}

func (StageLogger) Trace(v ...interface{}) { Log.Trace().Msg(fmt.Sprint(v...)) }
func (StageLogger) Debug(v ...interface{}) { Log.Debug().Msg(fmt.Sprint(v...)) }
func (StageLogger) Info(v ...interface{})  { Log.Info().Msg(fmt.Sprint(v...)) }
func (StageLogger) Warn(v ...interface{})  { Log.Warn().Msg(fmt.Sprint(v...)) }
func (StageLogger) Error(v ...interface{}) { Log.Error().Msg(fmt.Sprint(v...)) }
func (StageLogger) Fatal(v ...interface{}) { Log.Fatal().Msg(fmt.Sprint(v...)) }
func (StageLogger) Panic(v ...interface{}) { Log.Panic().Msg(fmt.Sprint(v...)) }

func (StageLogger) Tracef(f string, v ...interface{}) { Log.Trace().Msgf(f, v...) }
func (StageLogger) Debugf(f string, v ...interface{}) { Log.Debug().Msgf(f, v...) }
func (StageLogger) Infof(f string, v ...interface{})  { Log.Info().Msgf(f, v...) }
func (StageLogger) Warnf(f string, v ...interface{})  { Log.Warn().Msgf(f, v...) }
func (StageLogger) Errorf(f string, v ...interface{}) { Log.Error().Msgf(f, v...) }
func (StageLogger) Fatalf(f string, v ...interface{}) { Log.Fatal().Msgf(f, v...) }
func (StageLogger) Panicf(f string, v ...interface{}) { Log.Panic().Msgf(f, v...) }
