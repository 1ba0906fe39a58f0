/*
Package handler provides HTTP handler functions for joining the room,
sending messages, and serving the polled room state.
*/
package handler

import (
	"errors"
	"net/http"
	"time"

	"emberchat/internal/app/identity"
	"emberchat/internal/app/room"
	"emberchat/internal/app/roster"
	"emberchat/internal/app/session"
	"emberchat/internal/app/store"
	"emberchat/internal/pkg/errs"
	"emberchat/internal/pkg/logx"
	"emberchat/internal/pkg/req"
	"emberchat/internal/pkg/resp"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "emberchat_session"

// sessionFromRequest resolves the session for the request's cookie, creating
// a fresh NotJoined session (and setting the cookie) when none exists.
func sessionFromRequest(deps *AppDeps, w http.ResponseWriter, r *http.Request) (*session.Session, *errs.CustomError) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if sess, ok := deps.Sessions.Get(cookie.Value); ok {
			return sess, nil
		}
	}

	sess, err := deps.Sessions.Create()
	if err != nil {
		logx.Error(err, "Failed to create session")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(deps.Config.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   deps.Config.Environment != "development",
	})

	return sess, nil
}

// identityPayload renders the session identity for clients.
func identityPayload(sess *session.Session) map[string]any {
	userID, displayName, avatar := sess.Controller.Identity()

	return map[string]any{
		"userId":      userID,
		"displayName": displayName,
		"avatar":      avatar,
	}
}

type JoinRoomInput struct {
	// DisplayName is the user-chosen name shown next to messages. Required.
	DisplayName string `json:"displayName"`
	// Avatar must be one of the symbols served by /api/room/avatars.
	Avatar string `json:"avatar"`
}

// HandleJoinRoom processes a join form submission for the request's session.
// A successful join upserts the profile record and flips the session to
// joined; re-joining with new values updates the same record.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := sessionFromRequest(deps, w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input JoinRoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := sess.Controller.Join(r.Context(), input.DisplayName, input.Avatar); err != nil {
			switch {
			case errors.Is(err, identity.ErrDisplayNameRequired):
				resp.RespondError(w, r, errs.NewError(errs.ErrDisplayNameRequired))
			case errors.Is(err, identity.ErrAvatarInvalid):
				resp.RespondError(w, r, errs.NewError(errs.ErrAvatarInvalid))
			default:
				logx.Error(err, "Profile upsert failed during join")
				resp.RespondError(w, r, errs.NewError(errs.ErrJoinFailed))
			}
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"state":    sess.Controller.State().String(),
			"identity": identityPayload(sess),
		})
	}
}

type SendMessageInput struct {
	Text string `json:"text"`
}

// HandleSendMessage routes a send submission into the message store.
// Rejected while the session is not joined; empty or oversized text is
// refused before any store interaction. The response does not include the
// message — the next poll is expected to surface it.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := sessionFromRequest(deps, w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := sess.Controller.Send(r.Context(), input.Text); err != nil {
			switch {
			case errors.Is(err, room.ErrNotJoined):
				resp.RespondError(w, r, errs.NewError(errs.ErrNotJoined))
			case errors.Is(err, store.ErrEmptyMessage):
				resp.RespondError(w, r, errs.NewError(errs.ErrEmptyMessage))
			case errors.Is(err, store.ErrMessageTooLong):
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageTooLong))
			default:
				logx.Error(err, "Message append failed")
				resp.RespondError(w, r, errs.NewError(errs.ErrSendFailed))
			}
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleRoomState serves the latest polled projection of the room: session
// state, ordered messages, and the roster minus the caller's own entry.
// When the last poll failed, stale is true and the data is last-known good.
func HandleRoomState(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, customErr := sessionFromRequest(deps, w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		snap := deps.Poller.Snapshot()

		userID, _, _ := sess.Controller.Identity()

		messages := snap.Messages
		if messages == nil {
			messages = []store.Message{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"state":    sess.Controller.State().String(),
			"identity": identityPayload(sess),
			"messages": messages,
			"roster":   roster.WithoutSelf(snap.Roster, userID),
			"stale":    snap.Err != nil,
			"polledAt": snap.PolledAt,
		})
	}
}

// HandleListAvatars serves the fixed avatar set for the join form.
func HandleListAvatars(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"avatars": identity.Avatars,
		})
	}
}
