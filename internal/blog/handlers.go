package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/InkwellHQ/inkwell-backend/internal/db"
	"github.com/InkwellHQ/inkwell-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

// writeWorkflowError maps engine failures onto HTTP statuses; anything that
// is not a WorkflowError is a persistence problem.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var wfErr *WorkflowError
	if errors.As(err, &wfErr) {
		http.Error(w, wfErr.Error(), wfErr.HTTPStatus())
		return
	}
	http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// --- Posts

func ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	var posts []Post

	result := db.DB.Order("created_at DESC").Find(&posts)
	if result.Error != nil {
		http.Error(w, "DB error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func GetPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, "id = ?", id).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Title == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	post := Post{
		AuthorID: identity.UserID(),
		Title:    input.Title,
		Slug:     Slugify(input.Title),
		Content:  input.Content,
		Tags:     input.Tags,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, "id = ?", id).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	if post.AuthorID != identity.UserID() {
		http.Error(w, "Only the author may update this post", http.StatusForbidden)
		return
	}

	var input struct {
		Title   *string  `json:"title"`
		Content *string  `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
		updates["slug"] = Slugify(*input.Title)
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if len(updates) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := db.DB.Model(&post).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var post Post
	if err := db.DB.First(&post, "id = ?", id).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	if post.AuthorID != identity.UserID() {
		http.Error(w, "Only the author may delete this post", http.StatusForbidden)
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// --- Edits

func CreateEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var input struct {
		PostID     int64  `json:"post_id"`
		NewContent string `json:"new_content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	edit, err := engine.Create(identity, input.PostID, input.NewContent)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, edit)
}

func GetEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid edit id", http.StatusBadRequest)
		return
	}

	edit, err := engine.Get(identity, id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edit)
}

func UpdateEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid edit id", http.StatusBadRequest)
		return
	}

	var input struct {
		NewContent string `json:"new_content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	edit, err := engine.UpdateContent(identity, id, input.NewContent)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edit)
}

func DeleteEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid edit id", http.StatusBadRequest)
		return
	}

	if err := engine.Delete(identity, id); err != nil {
		writeWorkflowError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func AcceptEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid edit id", http.StatusBadRequest)
		return
	}

	var input struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	edit, err := engine.Accept(identity, id, input.Accept)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edit)
}

func RejectEditHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid edit id", http.StatusBadRequest)
		return
	}

	var input struct {
		Reject bool `json:"reject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	edit, err := engine.Reject(identity, id, input.Reject)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edit)
}

func OutgoingEditsHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	edits, err := engine.ListOutgoing(identity)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edits)
}

func IncomingEditsHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	edits, err := engine.ListIncoming(identity)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, edits)
}
