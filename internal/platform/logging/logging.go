package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
	// File, when set, receives a rotated copy of every line.
	File string
}

func New(name string, opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	if opts.File != "" {
		output = io.MultiWriter(output, RotatingFile(opts.File))
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(opts.Level),
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// RotatingFile returns a size-rotated writer. lumberjack creates missing
// parent directories on first write.
func RotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

// Discard is used where callers do not supply a logger.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
