package logging

import "log/slog"

// Domain identifiers

func Chat(id string) slog.Attr {
	return slog.String("chat_id", id)
}

func Message(id string) slog.Attr {
	return slog.String("message_id", id)
}

func User(id string) slog.Attr {
	return slog.String("user_id", id)
}

func Request(id string) slog.Attr {
	return slog.String("friend_request_id", id)
}

// Transport

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func ConnID(id string) slog.Attr {
	return slog.String("conn_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
