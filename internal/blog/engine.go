package blog

import (
	"errors"
	"fmt"

	"github.com/InkwellHQ/inkwell-backend/internal/identity"
)

// Store is the persistence surface the workflow engine runs on. The gorm
// implementation lives in store.go; tests use an in-memory fake.
type Store interface {
	GetPost(id int64) (Post, error)
	GetEdit(id int64) (Edit, error)
	CreateEdit(edit *Edit) error
	UpdateEditContent(id int64, content string) error
	UpdatePostContent(id int64, content string) error
	// SetEditStatus flips the status only if the current status equals
	// from, reporting whether a row was updated.
	SetEditStatus(id int64, from, to string) (bool, error)
	DeleteEdit(id int64) error
	EditsByEditor(editorID int64) ([]Edit, error)
	EditsByPostAuthor(authorID int64) ([]Edit, error)
}

// Engine enforces the edit-proposal state machine and its authorization
// rules. Handlers stay thin: parse the request, call the engine, map the
// WorkflowError to a status code.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Create opens a fresh PENDING proposal by the requesting editor. Duplicate
// active proposals are allowed; a rejected or deleted proposal may be
// recreated.
func (e *Engine) Create(who identity.Identity, postID int64, newContent string) (Edit, error) {
	if who.IsRoot() {
		return Edit{}, badRequest("an editor identity is required to propose an edit")
	}

	if _, err := e.loadPost(postID); err != nil {
		return Edit{}, err
	}

	edit := Edit{
		EditorID:   who.UserID(),
		PostID:     postID,
		NewContent: newContent,
		Status:     StatusPending,
	}
	if err := e.store.CreateEdit(&edit); err != nil {
		return Edit{}, err
	}
	return edit, nil
}

// Get fetches a single proposal. Only the proposing editor and the author
// of the target post may view it; the root identity bypasses the scoping
// for maintenance tooling.
func (e *Engine) Get(who identity.Identity, editID int64) (Edit, error) {
	edit, err := e.loadEdit(editID)
	if err != nil {
		return Edit{}, err
	}

	if who.IsRoot() || who.UserID() == edit.EditorID {
		return edit, nil
	}

	post, err := e.loadPost(edit.PostID)
	if err != nil {
		return Edit{}, err
	}
	if who.UserID() != post.AuthorID {
		return Edit{}, unauthorized("only the proposing editor or the post's author may view this edit")
	}
	return edit, nil
}

// Accept applies the proposal to the post and marks it ACCEPTED. The post
// content is written before the status flips: a failure between the two
// leaves the edit visibly PENDING instead of silently dropping the change.
func (e *Engine) Accept(who identity.Identity, editID int64, accept bool) (Edit, error) {
	edit, post, err := e.loadForResolution(who, editID)
	if err != nil {
		return Edit{}, err
	}

	if !accept {
		return Edit{}, badRequest("accept flag must be true")
	}

	if edit.Status != StatusPending {
		return Edit{}, forbidden(fmt.Sprintf("edit %d is already %s and cannot be accepted", edit.ID, edit.Status))
	}

	if err := e.store.UpdatePostContent(post.ID, edit.NewContent); err != nil {
		return Edit{}, err
	}

	if err := e.resolveStatus(&edit, StatusAccepted, "accepted"); err != nil {
		return Edit{}, err
	}
	return edit, nil
}

// Reject marks the proposal REJECTED without touching the post.
func (e *Engine) Reject(who identity.Identity, editID int64, reject bool) (Edit, error) {
	edit, _, err := e.loadForResolution(who, editID)
	if err != nil {
		return Edit{}, err
	}

	if !reject {
		return Edit{}, badRequest("reject flag must be true")
	}

	if edit.Status != StatusPending {
		return Edit{}, forbidden(fmt.Sprintf("edit %d is already %s and cannot be rejected", edit.ID, edit.Status))
	}

	if err := e.resolveStatus(&edit, StatusRejected, "rejected"); err != nil {
		return Edit{}, err
	}
	return edit, nil
}

// UpdateContent replaces the proposed content. Only the proposing editor
// may do this, and only while the proposal is still PENDING.
func (e *Engine) UpdateContent(who identity.Identity, editID int64, newContent string) (Edit, error) {
	edit, err := e.loadEdit(editID)
	if err != nil {
		return Edit{}, err
	}

	if !who.IsRoot() && who.UserID() != edit.EditorID {
		return Edit{}, unauthorized("only the proposing editor may update this edit")
	}

	if edit.Status != StatusPending {
		return Edit{}, badRequest(fmt.Sprintf("edit %d is %s and can no longer be updated", edit.ID, edit.Status))
	}

	if err := e.store.UpdateEditContent(editID, newContent); err != nil {
		return Edit{}, err
	}
	edit.NewContent = newContent
	return edit, nil
}

// Delete withdraws the proposal entirely. Only the proposing editor may do
// this; an ACCEPTED edit is part of the post's history and stays.
func (e *Engine) Delete(who identity.Identity, editID int64) error {
	edit, err := e.loadEdit(editID)
	if err != nil {
		return err
	}

	if !who.IsRoot() && who.UserID() != edit.EditorID {
		return unauthorized("only the proposing editor may delete this edit")
	}

	if edit.Status == StatusAccepted {
		return badRequest(fmt.Sprintf("edit %d is %s and cannot be deleted", edit.ID, edit.Status))
	}

	return e.store.DeleteEdit(editID)
}

// ListOutgoing returns the proposals the requester authored as editor.
func (e *Engine) ListOutgoing(who identity.Identity) ([]Edit, error) {
	return e.store.EditsByEditor(who.UserID())
}

// ListIncoming returns the proposals targeting the requester's posts.
func (e *Engine) ListIncoming(who identity.Identity) ([]Edit, error) {
	return e.store.EditsByPostAuthor(who.UserID())
}

func (e *Engine) loadPost(postID int64) (Post, error) {
	post, err := e.store.GetPost(postID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Post{}, notFound(fmt.Sprintf("post %d not found", postID))
		}
		return Post{}, err
	}
	return post, nil
}

func (e *Engine) loadEdit(editID int64) (Edit, error) {
	edit, err := e.store.GetEdit(editID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return Edit{}, notFound(fmt.Sprintf("edit %d not found", editID))
		}
		return Edit{}, err
	}
	return edit, nil
}

// loadForResolution loads the edit and its post, checking that the
// requester is the post's author. Accept and reject share this gate.
func (e *Engine) loadForResolution(who identity.Identity, editID int64) (Edit, Post, error) {
	edit, err := e.loadEdit(editID)
	if err != nil {
		return Edit{}, Post{}, err
	}

	post, err := e.loadPost(edit.PostID)
	if err != nil {
		return Edit{}, Post{}, err
	}

	if !who.IsRoot() && who.UserID() != post.AuthorID {
		return Edit{}, Post{}, unauthorized("only the author of this post may accept or reject edits")
	}
	return edit, post, nil
}

// resolveStatus performs the PENDING-guarded status flip. A concurrent
// resolution shows up as zero rows affected; the loser re-reads and reports
// the status that won.
func (e *Engine) resolveStatus(edit *Edit, to, verb string) error {
	ok, err := e.store.SetEditStatus(edit.ID, StatusPending, to)
	if err != nil {
		return err
	}
	if !ok {
		current, err := e.store.GetEdit(edit.ID)
		if err != nil {
			return err
		}
		return forbidden(fmt.Sprintf("edit %d is already %s and cannot be %s", edit.ID, current.Status, verb))
	}
	edit.Status = to
	return nil
}
