package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// MessagesPageData contains data for rendering the messaging page: the
// inbox pane plus, when a conversation is selected, its thread.
type MessagesPageData struct {
	Layout
	Conversations []backend.Conversation
	Selected      *backend.Conversation
	Messages      []backend.Message
	SelfID        int64
}

// MessagesPageHandler displays the inbox (GET /messages) and, with a
// conversation id (GET /messages/{id}), the thread next to it.
func (s *Server) MessagesPageHandler() http.HandlerFunc {
	messagesTmpl, err := ParsePage("messages.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse messages template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rs, _ := SessionFrom(r.Context())

		conversations, err := s.client.Conversations(r.Context(), rs.Token)
		if err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}

		data := MessagesPageData{
			Layout:        s.layout(r, "Messages", "messages"),
			Conversations: conversations,
		}
		if rs.User != nil {
			data.SelfID = rs.User.ID
		}

		if id, ok := pathID(r); ok {
			for i := range conversations {
				if conversations[i].ID == id {
					data.Selected = &conversations[i]
					break
				}
			}
			if data.Selected == nil {
				http.Error(w, "404 - Page Not Found", http.StatusNotFound)
				return
			}

			messages, err := s.client.Messages(r.Context(), rs.Token, id)
			if err != nil {
				s.backendErrorResponse(w, r, err)
				return
			}
			data.Messages = messages
		}

		s.renderPage(w, messagesTmpl, data)
	}
}

// SendMessageHandler appends to a thread (POST /messages/{id}) and returns
// to it.
func (s *Server) SendMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		rs, _ := SessionFrom(r.Context())
		threadPath := fmt.Sprintf("/messages/%d", id)

		form := messageForm{Body: strings.TrimSpace(r.FormValue("body"))}
		if err := s.validate.Struct(form); err != nil {
			s.redirectWithError(w, r, threadPath, validationMessage(err), "")
			return
		}

		if _, err := s.client.SendMessage(r.Context(), rs.Token, id, form.Body); err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}
		http.Redirect(w, r, threadPath, http.StatusSeeOther)
	}
}
