package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/xaenox/stocksense/internal/chat"
	"github.com/xaenox/stocksense/internal/company"
	"github.com/xaenox/stocksense/internal/concepts"
	"github.com/xaenox/stocksense/internal/digest"
	"github.com/xaenox/stocksense/internal/market"
	"github.com/xaenox/stocksense/internal/models"
	"go.uber.org/zap"
)

// Server exposes the JSON API consumed by the web UI.
type Server struct {
	chat     *chat.Service
	concepts *concepts.Service
	digest   *digest.Service
	company  *company.Service
	market   market.Provider
	logger   *zap.Logger
}

func New(
	chatSvc *chat.Service,
	conceptSvc *concepts.Service,
	digestSvc *digest.Service,
	companySvc *company.Service,
	marketClient market.Provider,
	logger *zap.Logger,
) http.Handler {
	s := &Server{
		chat:     chatSvc,
		concepts: conceptSvc,
		digest:   digestSvc,
		company:  companySvc,
		market:   marketClient,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/chat/delete", s.handleChatDelete)
	mux.HandleFunc("/quote", s.handleQuote)
	mux.HandleFunc("/company", s.handleCompany)
	mux.HandleFunc("/concept", s.handleConcept)
	mux.HandleFunc("/market", s.handleMarket)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message        string `json:"message"`
	Mode           string `json:"mode,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

type chatResponse struct {
	ConversationID string           `json:"conversationId"`
	Reply          string           `json:"reply"`
	Messages       []models.Message `json:"messages"`
}

type messagesResponse struct {
	Messages []models.Message `json:"messages"`
}

type deleteRequest struct {
	ConversationID string `json:"conversationId"`
}

type quoteResponse struct {
	Quote *models.Quote `json:"quote"`
}

type companyResponse struct {
	Overview *models.CompanyOverview `json:"overview"`
	Summary  *string                 `json:"summary"`
}

type conceptRequest struct {
	Concept string `json:"concept"`
}

type conceptResponse struct {
	Content string `json:"content"`
	Cached  bool   `json:"cached,omitempty"`
}

type historyResponse struct {
	Messages []models.Message `json:"messages"`
	Tickers  []string         `json:"tickers"`
	Concepts []string         `json:"concepts"`
	Notice   string           `json:"notice"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChatHistory(w, r)
	case http.MethodPost:
		s.handleChatMessage(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.chat.SendMessage(r.Context(), chat.SendMessageInput{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Mode:           req.Mode,
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			badRequest(w, "Message is required.")
			return
		}
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: out.ConversationID,
		Reply:          out.Reply,
		Messages:       out.Messages,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")

	messages, err := s.chat.History(r.Context(), conversationID)
	if err != nil {
		serverError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messagesResponse{Messages: messages})
}

func (s *Server) handleChatDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ConversationID == "" {
		badRequest(w, "conversationId required")
		return
	}

	if err := s.chat.DeleteConversation(r.Context(), req.ConversationID); err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if !s.market.Configured() {
		writeError(w, http.StatusInternalServerError, "Market data API key not configured.")
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		badRequest(w, "Ticker is required.")
		return
	}

	quote, err := s.market.GlobalQuote(r.Context(), ticker)
	if err != nil || quote.Price == 0 {
		writeError(w, http.StatusInternalServerError, "No data returned for that ticker.")
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{Quote: quote})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		badRequest(w, "Ticker is required.")
		return
	}

	overview, summary, err := s.company.Snapshot(r.Context(), ticker)
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companyResponse{Overview: overview, Summary: summary})
}

func (s *Server) handleConcept(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req conceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	content, cached, err := s.concepts.Explain(r.Context(), req.Concept)
	if err != nil {
		if errors.Is(err, concepts.ErrEmptyConcept) {
			badRequest(w, "Concept is required.")
			return
		}
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conceptResponse{Content: content, Cached: cached})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	d, err := s.digest.Assemble(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleHistory mirrors the public demo behavior: cross-conversation
// browsing stays disabled so user data is never listed.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Messages: []models.Message{},
		Tickers:  []string{},
		Concepts: []string{},
		Notice:   "History disabled for demo.",
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// serverError reports downstream failures. Service errors carry fixed
// human-readable messages, never stack traces.
func serverError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
