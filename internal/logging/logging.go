// Package logging builds the gommon logger used by the binaries. Output
// goes to stdout and to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`

func ParseLevel(level string) (log.Lvl, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return log.INFO, fmt.Errorf("%s: invalid log level", level)
}

// New returns a logger named prefix. When dir is empty only console is
// written to; otherwise a rotated <prefix>.log is kept in dir as well.
func New(prefix, level, dir string, console io.Writer) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := log.New(prefix)
	l.SetLevel(lvl)
	l.SetHeader(header)

	if dir == "" {
		l.SetOutput(console)
		return l, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, prefix+".log"),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if lvl == log.DEBUG {
		w.MaxSize = 512
	}
	l.SetOutput(io.MultiWriter(console, w))
	return l, nil
}
