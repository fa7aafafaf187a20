package handlers

import (
	"context"
	"time"

	"livechat/logging"
	"livechat/models"
)

const joinTimeout = 5 * time.Second

func newChatHandler(deps Deps) func(models.Chat) {
	return func(chat models.Chat) {
		if err := chat.Validate(); err != nil {
			deps.Log.Warn("handlers - chat:new - invalid chat dropped",
				logging.Chat(chat.ID), "type", chat.Type, "participants", len(chat.Participants), logging.Err(err))
			return
		}
		if !deps.Chats.InsertNewChat(chat) {
			deps.Log.Debug("handlers - chat:new - already known", logging.Chat(chat.ID))
			return
		}
		deps.Log.Info("handlers - chat:new - inserted", logging.Chat(chat.ID))
		if deps.Joiner == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), joinTimeout)
		defer cancel()
		if err := deps.Joiner.JoinChats(ctx, []string{chat.ID}); err != nil {
			deps.Log.Error("handlers - chat:new - join failed", logging.Chat(chat.ID), logging.Err(err))
		}
	}
}
