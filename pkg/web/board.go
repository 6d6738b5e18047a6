package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/soft-board/pkg/access"
	"github.com/charmbracelet/soft-board/pkg/backend"
	"github.com/charmbracelet/soft-board/pkg/jwk"
	"github.com/charmbracelet/soft-board/pkg/proto"
	"github.com/charmbracelet/soft-board/pkg/utils"
	"github.com/gorilla/mux"
)

// maxBodySize is the largest request body accepted.
const maxBodySize = 1 << 20

// BoardController registers the board, column, card, member, invite and
// notification routes. Every route requires a bearer token.
func BoardController(_ context.Context, r *mux.Router, pair jwk.Pair) {
	routes := []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodPost, "/boards", createBoard},
		{http.MethodGet, "/boards", listBoards},
		{http.MethodGet, "/boards/{boardId:[0-9]+}", getBoard},
		{http.MethodPatch, "/boards/{boardId:[0-9]+}", renameBoard},
		{http.MethodDelete, "/boards/{boardId:[0-9]+}", deleteBoard},

		{http.MethodPost, "/boards/{boardId:[0-9]+}/columns", createColumn},
		{http.MethodPatch, "/columns/{id:[0-9]+}", updateColumn},
		{http.MethodPatch, "/columns/{id:[0-9]+}/reorder", reorderColumn},
		{http.MethodDelete, "/columns/{id:[0-9]+}", deleteColumn},

		{http.MethodPost, "/columns/{columnId:[0-9]+}/cards", createCard},
		{http.MethodGet, "/cards/{cardId:[0-9]+}", getCard},
		{http.MethodPatch, "/cards/{cardId:[0-9]+}", updateCard},
		{http.MethodPatch, "/cards/{cardId:[0-9]+}/move", moveCard},
		{http.MethodDelete, "/cards/{cardId:[0-9]+}", deleteCard},

		{http.MethodGet, "/boards/{boardId:[0-9]+}/members", listMembers},
		{http.MethodPost, "/boards/{boardId:[0-9]+}/members", addMember},
		{http.MethodPatch, "/boards/{boardId:[0-9]+}/members/{userId:[0-9]+}", updateMemberRole},
		{http.MethodDelete, "/boards/{boardId:[0-9]+}/members/{userId:[0-9]+}", removeMember},

		{http.MethodPost, "/boards/{boardId:[0-9]+}/invites", sendInvite},
		{http.MethodGet, "/boards/{boardId:[0-9]+}/invites", listBoardInvites},
		{http.MethodGet, "/invites/pending", listPendingInvites},
		{http.MethodPost, "/invites/{inviteId:[0-9]+}/accept", acceptInvite},
		{http.MethodPost, "/invites/{inviteId:[0-9]+}/decline", declineInvite},

		{http.MethodGet, "/notifications", listNotifications},
		{http.MethodPost, "/notifications/read", markAllNotificationsRead},
		{http.MethodPost, "/notifications/{id:[0-9]+}/read", markNotificationRead},
	}

	for _, rt := range routes {
		r.HandleFunc(rt.path, withUser(pair, rt.handler)).Methods(rt.method)
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

type titleRequest struct {
	Title string `json:"title"`
}

type reorderRequest struct {
	NewOrder *int `json:"newOrder"`
}

type cardRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type moveRequest struct {
	NewColumnID *int64 `json:"newColumnId"`
	NewOrder    *int   `json:"newOrder"`
}

type memberRequest struct {
	Email string      `json:"email"`
	Role  access.Role `json:"role"`
}

type roleRequest struct {
	Role access.Role `json:"role"`
}

type countResponse struct {
	Updated int64 `json:"updated"`
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, proto.Errorf(proto.KindValidation, "invalid %s", name)
	}

	return id, nil
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return proto.Errorf(proto.KindValidation, "invalid request body: %s", err)
	}

	return nil
}

func checkTitle(title string) error {
	if utils.NormalizeTitle(title) == "" {
		return proto.ErrInvalidTitle
	}
	return nil
}

func checkOrder(order *int) error {
	if order == nil || *order < 0 {
		return proto.ErrInvalidOrder
	}
	return nil
}

func checkRole(role access.Role) error {
	if !role.Valid() {
		return proto.ErrInvalidRole
	}
	return nil
}

func checkEmail(email string) error {
	if _, err := utils.NormalizeEmail(email); err != nil {
		return proto.ErrInvalidEmail
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func createBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req nameRequest
	if err := decode(w, r, &req); err != nil {
		renderError(w, r, err)
		return
	}

	b, err := backend.FromContext(ctx).CreateBoard(ctx, proto.UserFromContext(ctx), req.Name)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, b)
}

func listBoards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bs, err := backend.FromContext(ctx).Boards(ctx, proto.UserFromContext(ctx))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, bs)
}

func getBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "boardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	b, err := backend.FromContext(ctx).Board(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, b)
}

func renameBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req nameRequest
	id, err := pathID(r, "boardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	b, err := backend.FromContext(ctx).RenameBoard(ctx, proto.UserFromContext(ctx), id, req.Name)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, b)
}

func deleteBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "boardId")
	if err == nil {
		err = backend.FromContext(ctx).DeleteBoard(ctx, proto.UserFromContext(ctx), id)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusNoContent, nil)
}

func createColumn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req titleRequest
	id, err := pathID(r, "boardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkTitle(req.Title)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).CreateColumn(ctx, proto.UserFromContext(ctx), id, req.Title)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, c)
}

func updateColumn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req titleRequest
	id, err := pathID(r, "id")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkTitle(req.Title)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).UpdateColumn(ctx, proto.UserFromContext(ctx), id, req.Title)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, c)
}

func reorderColumn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reorderRequest
	id, err := pathID(r, "id")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkOrder(req.NewOrder)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).ReorderColumn(ctx, proto.UserFromContext(ctx), id, *req.NewOrder)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, c)
}

func deleteColumn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err == nil {
		err = backend.FromContext(ctx).DeleteColumn(ctx, proto.UserFromContext(ctx), id)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusNoContent, nil)
}

func createCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req cardRequest
	id, err := pathID(r, "columnId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkTitle(req.Title)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).CreateCard(ctx, proto.UserFromContext(ctx), id, req.Title, req.Content)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, c)
}

func getCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "cardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).Card(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, c)
}

func updateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req cardRequest
	id, err := pathID(r, "cardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkTitle(req.Title)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).UpdateCard(ctx, proto.UserFromContext(ctx), id, req.Title, req.Content)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, c)
}

func moveCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req moveRequest
	id, err := pathID(r, "cardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil && (req.NewColumnID == nil || *req.NewColumnID <= 0) {
		err = proto.Errorf(proto.KindValidation, "invalid newColumnId")
	}
	if err == nil {
		err = checkOrder(req.NewOrder)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	c, err := backend.FromContext(ctx).MoveCard(ctx, proto.UserFromContext(ctx), id, *req.NewColumnID, *req.NewOrder)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, c)
}

func deleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "cardId")
	if err == nil {
		err = backend.FromContext(ctx).DeleteCard(ctx, proto.UserFromContext(ctx), id)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusNoContent, nil)
}

func listMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "boardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	ms, err := backend.FromContext(ctx).Members(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, ms)
}

func addMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req memberRequest
	id, err := pathID(r, "boardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = firstErr(checkEmail(req.Email), checkRole(req.Role))
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	m, err := backend.FromContext(ctx).AddMember(ctx, proto.UserFromContext(ctx), id, req.Email, req.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, m)
}

func updateMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req roleRequest
	boardID, err := pathID(r, "boardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	userID, err := pathID(r, "userId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = checkRole(req.Role)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	m, err := backend.FromContext(ctx).UpdateMemberRole(ctx, proto.UserFromContext(ctx), boardID, userID, req.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, m)
}

func removeMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	boardID, err := pathID(r, "boardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	userID, err := pathID(r, "userId")
	if err == nil {
		err = backend.FromContext(ctx).RemoveMember(ctx, proto.UserFromContext(ctx), boardID, userID)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusNoContent, nil)
}

func sendInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req memberRequest
	id, err := pathID(r, "boardId")
	if err == nil {
		err = decode(w, r, &req)
	}
	if err == nil {
		err = firstErr(checkEmail(req.Email), checkRole(req.Role))
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	inv, err := backend.FromContext(ctx).SendInvite(ctx, proto.UserFromContext(ctx), id, req.Email, req.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, inv)
}

func listBoardInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "boardId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	invs, err := backend.FromContext(ctx).BoardInvites(ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, invs)
}

func listPendingInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	invs, err := backend.FromContext(ctx).PendingInvites(ctx, proto.UserFromContext(ctx))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, invs)
}

func acceptInvite(w http.ResponseWriter, r *http.Request) {
	answerInvite(w, r, (*backend.Backend).AcceptInvite)
}

func declineInvite(w http.ResponseWriter, r *http.Request) {
	answerInvite(w, r, (*backend.Backend).DeclineInvite)
}

func answerInvite(w http.ResponseWriter, r *http.Request, answer func(*backend.Backend, context.Context, proto.User, int64) (proto.Invite, error)) {
	ctx := r.Context()
	id, err := pathID(r, "inviteId")
	if err != nil {
		renderError(w, r, err)
		return
	}

	inv, err := answer(backend.FromContext(ctx), ctx, proto.UserFromContext(ctx), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, inv)
}

func listNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var unread bool
	if v := r.URL.Query().Get("unread"); v != "" {
		var err error
		unread, err = strconv.ParseBool(v)
		if err != nil {
			renderError(w, r, proto.Errorf(proto.KindValidation, "invalid unread parameter"))
			return
		}
	}

	ns, err := backend.FromContext(ctx).Notifications(ctx, proto.UserFromContext(ctx), unread)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, ns)
}

func markNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err == nil {
		err = backend.FromContext(ctx).MarkNotificationRead(ctx, proto.UserFromContext(ctx), id)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusNoContent, nil)
}

func markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	n, err := backend.FromContext(ctx).MarkAllNotificationsRead(ctx, proto.UserFromContext(ctx))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, countResponse{Updated: n})
}
