package suppression

import (
	"strings"

	"go.uber.org/zap"
)

// List decides which contact statuses must never receive mail. Statuses are
// normalized once at construction time.
type List struct {
	statuses map[string]struct{}
	logger   *zap.Logger
}

// NewList creates a suppression list for the given statuses.
func NewList(statuses []string, logger *zap.Logger) *List {
	normalized := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			normalized[s] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized suppression list", zap.Int("statuses", len(normalized)))
	}

	return &List{statuses: normalized, logger: logger}
}

// IsSuppressed reports whether a contact with the given status may not be
// mailed.
func (l *List) IsSuppressed(status string) bool {
	if len(l.statuses) == 0 {
		return false
	}

	_, ok := l.statuses[strings.ToLower(strings.TrimSpace(status))]
	if ok && l.logger != nil {
		l.logger.Debug("Status is suppressed", zap.String("status", status))
	}
	return ok
}
