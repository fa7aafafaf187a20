package handlers

import (
	"livechat/logging"
	"livechat/models"
)

func friendRequestHandler(deps Deps) func(models.FriendRequest) {
	return func(req models.FriendRequest) {
		if req.ID == "" {
			deps.Log.Warn("handlers - friend:request - missing id")
			return
		}
		if deps.Users != nil && req.From.ID != "" {
			deps.Users.CacheUser(req.From)
		}
		if deps.Friends.AddRequest(req) {
			deps.Log.Info("handlers - friend:request - added", logging.Request(req.ID), logging.User(req.From.ID))
		}
	}
}

func friendAcceptedHandler(deps Deps) func(models.FriendAcceptedEvent) {
	return func(ev models.FriendAcceptedEvent) {
		var friend *models.User
		if ev.Friend.ID != "" {
			friend = &ev.Friend
			if deps.Users != nil {
				deps.Users.CacheUser(ev.Friend)
			}
		}
		if deps.Friends.AcceptRequest(ev.RequestID, friend) {
			deps.Log.Info("handlers - friend:accepted - applied", logging.Request(ev.RequestID))
		}
	}
}

func friendRejectedHandler(deps Deps) func(models.FriendRejectedEvent) {
	return func(ev models.FriendRejectedEvent) {
		if deps.Friends.RemoveRequest(ev.RequestID) {
			deps.Log.Info("handlers - friend:rejected - removed", logging.Request(ev.RequestID))
		}
	}
}
