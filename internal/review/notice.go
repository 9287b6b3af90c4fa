package review

import (
	"dupereview/internal/services"
)

// Level ranks a Notice for display.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a reviewer-facing message produced by a controller action.
type Notice struct {
	Level   Level
	Kind    services.ErrorKind
	Message string
}

func infoNotice(msg string) Notice {
	return Notice{Level: LevelInfo, Message: msg}
}

func errorNotice(msg string, err error) Notice {
	level := LevelError
	kind := services.Kind(err)
	if kind == services.KindPrecondition || kind == services.KindLookup {
		level = LevelWarn
	}
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return Notice{Level: level, Kind: kind, Message: msg}
}
