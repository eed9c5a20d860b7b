package handler

import (
	"errors"
	"net/http"
	"strconv"

	"talentx/internal/app/message"
	"talentx/internal/app/metrics"
	"talentx/internal/pkg/auth/jwt"
	"talentx/internal/pkg/errs"
	"talentx/internal/pkg/req"
	"talentx/internal/pkg/resp"
)

func senderOf(id jwt.Identity) message.Sender {
	return message.Sender{ID: id.ID, Role: id.Role}
}

// messageError maps message service errors to API errors. Unclassified errors are
// logged by errs.NewError and reported as storage failures.
func messageError(err error) *errs.CustomError {
	switch {
	case errors.Is(err, message.ErrContentEmpty):
		return errs.NewError(errs.ErrMessageContentEmpty)
	case errors.Is(err, message.ErrContentTooLong):
		return errs.NewError(errs.ErrMessageContentTooLong)
	case errors.Is(err, message.ErrReceiverRequired):
		return errs.NewError(errs.ErrReceiverRequired)
	case errors.Is(err, message.ErrNotFound):
		return errs.NewError(errs.ErrInvalidParams)
	default:
		return errs.NewError(errs.ErrStorageUnavailable, err)
	}
}

// HandleGetMessages lists support threads (type=threads, admins only), a support
// thread (isSupport=true), a direct conversation (receiverID) or, with none of
// those, every message the caller sent or received.
func HandleGetMessages(deps *AppDeps) jwt.IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id jwt.Identity) {
		query := r.URL.Query()

		if query.Get("type") == "threads" {
			if !id.IsAdmin() {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}

			threads, err := deps.Messages.GetSupportThreads(r.Context())
			if err != nil {
				resp.RespondError(w, r, messageError(err))
				return
			}
			resp.RespondSuccess(w, r, threads)
			return
		}

		isSupport, _ := strconv.ParseBool(query.Get("isSupport"))
		if isSupport {
			threadUserID := query.Get("threadUserId")
			if threadUserID != "" && threadUserID != id.ID && !id.IsAdmin() {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}

			msgs, err := deps.Messages.GetSupportMessages(r.Context(), id.ID, id.IsAdmin(), threadUserID)
			if err != nil {
				resp.RespondError(w, r, messageError(err))
				return
			}
			resp.RespondSuccess(w, r, msgs)
			return
		}

		var (
			msgs []message.FormattedMessage
			err  error
		)
		if receiverID := query.Get("receiverID"); receiverID != "" {
			msgs, err = deps.Messages.GetDirectMessages(r.Context(), id.ID, receiverID)
		} else {
			msgs, err = deps.Messages.GetUserMessages(r.Context(), id.ID)
		}
		if err != nil {
			resp.RespondError(w, r, messageError(err))
			return
		}
		resp.RespondSuccess(w, r, msgs)
	}
}

// HandleCreateMessage stores a message and pushes it to live recipients.
func HandleCreateMessage(deps *AppDeps) jwt.IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id jwt.Identity) {
		var input message.CreateInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msg, err := deps.Messages.CreateMessage(r.Context(), senderOf(id), input)
		if err != nil {
			resp.RespondError(w, r, messageError(err))
			return
		}

		deps.Metrics.MessageCreated(metrics.SourceREST, input.IsSupport)
		if deps.Gateway != nil {
			deps.Gateway.Deliver(msg)
		}

		resp.RespondCreated(w, r, msg)
	}
}

// HandleUnreadCount returns the caller's unread general and support counts.
func HandleUnreadCount(deps *AppDeps) jwt.IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id jwt.Identity) {
		counts, err := deps.Messages.UnreadCount(r.Context(), senderOf(id))
		if err != nil {
			resp.RespondError(w, r, messageError(err))
			return
		}
		resp.RespondSuccess(w, r, counts)
	}
}

// HandleMarkRead marks the selected messages as read.
func HandleMarkRead(deps *AppDeps) jwt.IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id jwt.Identity) {
		var input message.MarkReadInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, err := deps.Messages.MarkRead(r.Context(), senderOf(id), input)
		if err != nil {
			resp.RespondError(w, r, messageError(err))
			return
		}
		resp.RespondSuccess(w, r, map[string]int64{"updated": updated})
	}
}
