package core

import "go.uber.org/zap"

// Option sets options for core operations
type Option func(*Settings)

// Settings defines various settings for core features
type Settings struct {
	allowEmpty bool
	l          *zap.Logger
}

// AllowEmpty makes OpenRelease return a new empty record when no record
// exists yet for the change, instead of failing
func AllowEmpty(allow bool) Option {
	return func(s *Settings) {
		s.allowEmpty = allow
	}
}

// WithLogger sets a zap logger. It defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

func defaultSettings() Settings {
	return Settings{
		l: zap.NewNop(),
	}
}
