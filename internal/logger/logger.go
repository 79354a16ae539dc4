package logger

import (
  "strings"

  "go.uber.org/zap"
)

type Logger struct {
  SugaredLogger *zap.SugaredLogger
}

func New(mode string) (*Logger, error) {
  var cfg zap.Config
  switch strings.ToLower(mode) {
  case "prod", "production":
    cfg = zap.NewProductionConfig()
  default:
    cfg = zap.NewDevelopmentConfig()
    cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
  }
  zapLogger, err := cfg.Build()
  if err != nil {
    return nil, err
  }
  return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func (l *Logger) Sync() {
  _ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
  l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
  l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
  l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
  l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
  l.SugaredLogger.Fatalw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
  return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

// Student comment text can contain anything; API keys must never be logged.
func sanitizeKVs(kv []interface{}) []interface{} {
  if len(kv) == 0 {
    return kv
  }
  out := make([]interface{}, 0, len(kv))
  for i := 0; i < len(kv); i += 2 {
    if i == len(kv)-1 {
      out = append(out, kv[i])
      break
    }
    key, ok := kv[i].(string)
    if !ok {
      out = append(out, kv[i], kv[i+1])
      continue
    }
    if isRedactKey(strings.ToLower(key)) {
      out = append(out, key, "[REDACTED]")
      continue
    }
    out = append(out, key, kv[i+1])
  }
  return out
}

func isRedactKey(key string) bool {
  switch {
  case strings.Contains(key, "api_key"),
    strings.Contains(key, "apikey"),
    strings.Contains(key, "authorization"),
    strings.Contains(key, "password"),
    strings.Contains(key, "secret"),
    strings.Contains(key, "token"):
    return true
  default:
    return false
  }
}
