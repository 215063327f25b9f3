package validation

import (
	"github.com/charmbracelet/log"
)

// DiscardNotifier drops messages and declines every warning.
type DiscardNotifier struct{}

func (DiscardNotifier) Notify(ParameterizedMessage)             {}
func (DiscardNotifier) VerifyWarning(ParameterizedMessage) bool { return false }

// LogNotifier writes raised messages to a logger. Warnings are accepted only
// when AcceptWarnings is set.
type LogNotifier struct {
	Logger         *log.Logger
	AcceptWarnings bool
}

func NewLogNotifier(logger *log.Logger, acceptWarnings bool) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{Logger: logger, AcceptWarnings: acceptWarnings}
}

func (n *LogNotifier) Notify(msg ParameterizedMessage) {
	switch msg.Severity() {
	case Error:
		n.Logger.Error(msg.Text(), "key", msg.Message.Key)
	case Warning:
		n.Logger.Warn(msg.Text(), "key", msg.Message.Key)
	default:
		n.Logger.Info(msg.Text(), "key", msg.Message.Key)
	}
}

func (n *LogNotifier) VerifyWarning(msg ParameterizedMessage) bool {
	if !n.AcceptWarnings {
		n.Logger.Debug("declined warning", "key", msg.Message.Key)
	}
	return n.AcceptWarnings
}
