package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	consoleMessageKeyConstant            = "message"
	standardErrorOutputPathConstant      = "stderr"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported diagnostic log encodings.
type LogFormat string

const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// LoggerOutputs pairs the diagnostic logger with a message-only console logger.
//
// DiagnosticLogger carries structured fields for troubleshooting. ConsoleLogger
// prints bare messages and reports queued command progress.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactory builds zap loggers that write to a single output path.
type LoggerFactory struct {
	outputPath string
}

// NewLoggerFactory constructs a factory whose loggers write to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithOutput(standardErrorOutputPathConstant)
}

// NewLoggerFactoryWithOutput constructs a factory writing to the given zap output path.
func NewLoggerFactoryWithOutput(outputPath string) *LoggerFactory {
	if len(strings.TrimSpace(outputPath)) == 0 {
		outputPath = standardErrorOutputPathConstant
	}
	return &LoggerFactory{outputPath: outputPath}
}

// CreateLogger produces the diagnostic logger for the requested level and format.
// Level and format names are matched case-insensitively.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelError := resolveLogLevel(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}
	encoding, formatExists := logFormatEncodingMapping[LogFormat(strings.ToLower(string(requestedLogFormat)))]
	if !formatExists {
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = []string{factory.outputPath}
	configuration.ErrorOutputPaths = []string{factory.outputPath}
	return configuration.Build()
}

// CreateLoggerOutputs produces both the diagnostic and console loggers for the requested settings.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogger, diagnosticError := factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	if diagnosticError != nil {
		return LoggerOutputs{}, diagnosticError
	}
	zapLogLevel, _ := resolveLogLevel(requestedLogLevel)

	consoleLogger, consoleError := factory.consoleConfiguration(zapLogLevel).Build()
	if consoleError != nil {
		return LoggerOutputs{}, consoleError
	}
	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: consoleLogger}, nil
}

// consoleConfiguration encodes only the level and message, e.g. "INFO\t[1] Installing workspace dependencies in .".
func (factory *LoggerFactory) consoleConfiguration(level zapcore.Level) zap.Config {
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         consoleZapEncodingStringConstant,
		OutputPaths:      []string{factory.outputPath},
		ErrorOutputPaths: []string{factory.outputPath},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  consoleMessageKeyConstant,
			LevelKey:    "level",
			LineEnding:  zapcore.DefaultLineEnding,
			EncodeLevel: zapcore.CapitalLevelEncoder,
		},
	}
}

func resolveLogLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(strings.ToLower(string(requestedLogLevel)))]
	if !levelExists {
		return zapcore.InfoLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}
	return zapLogLevel, nil
}
