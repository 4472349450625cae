package logger

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Terminal colors for the banner and success marks.
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
)

var (
	mu  sync.Mutex
	log *zap.Logger
)

// Init configures the process logger. Safe to call more than once;
// the last call wins.
func Init(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	log = build(debug)
}

func get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = build(false)
	}
	return log
}

func build(debug bool) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)
	return zap.New(core)
}

func levelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// Info logs an informational message under a component tag.
func Info(tag, msg string) {
	get().Info(fmt.Sprintf("[%s] %s", tag, msg))
}

// Success logs a completed operation under a component tag.
func Success(tag, msg string) {
	get().Info(fmt.Sprintf("[%s] %s✓%s %s", tag, colorGreen, colorReset, msg))
}

// Warn logs a degraded-but-handled condition under a component tag.
func Warn(tag, msg string) {
	get().Warn(fmt.Sprintf("[%s] %s", tag, msg))
}

// Error logs a failure under a component tag.
func Error(tag, msg string) {
	get().Error(fmt.Sprintf("[%s] %s", tag, msg))
}

// Debug logs a verbose diagnostic message under a component tag.
func Debug(tag, msg string) {
	get().Debug(fmt.Sprintf("[%s] %s", tag, msg))
}

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%s╔══════════════════════════════════════╗%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s║      Crypto Trade Calculator %-7s ║%s\n", colorBold, colorCyan, version, colorReset)
	fmt.Printf("%s%s╚══════════════════════════════════════╝%s\n", colorBold, colorCyan, colorReset)
}

// Section prints a visual divider between startup phases.
func Section(title string) {
	fmt.Printf("%s── %s %s\n", colorCyan, title, colorReset)
}

// Stats logs a named counter or measurement.
func Stats(key string, value interface{}) {
	get().Info(fmt.Sprintf("[Stats] %s = %v", key, value))
}

// Server logs the address the HTTP server is listening on.
func Server(addr string) {
	get().Info(fmt.Sprintf("[Server] Listening on http://%s", addr))
}
