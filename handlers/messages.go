package handlers

import (
	"livechat/logging"
	"livechat/models"
)

func newMessageHandler(deps Deps) func(models.Message) {
	return func(msg models.Message) {
		if msg.ID == "" || msg.Chat == "" {
			deps.Log.Warn("handlers - message:new - missing id or chat", logging.Message(msg.ID), logging.Chat(msg.Chat))
			return
		}
		appended := deps.Chats.AppendMessage(msg)
		deps.Log.Debug("handlers - message:new - applied",
			logging.Message(msg.ID), logging.Chat(msg.Chat), "appended", appended)
	}
}
