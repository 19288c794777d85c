package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/glezervv/reminder-bot/db"
	"github.com/glezervv/reminder-bot/metrics"
)

// Server renders the reminder creation form and the per-user list view.
type Server struct {
	db     *db.Database
	logger *zap.SugaredLogger
	index  *template.Template
	list   *template.Template
}

func NewServer(d *db.Database, l *zap.SugaredLogger) *Server {
	return &Server{
		db:     d,
		logger: l,
		index:  template.Must(template.New("index").Parse(indexHTML)),
		list:   template.Must(template.New("list").Parse(listHTML)),
	}
}

// Router wires HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleCreate)
	r.Get("/list/{userID}", s.handleList)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	if err := s.index.Execute(w, nil); err != nil {
		s.logger.Errorw("failed rendering index", "err", err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	usr, err := strconv.ParseInt(r.PostFormValue("user_id"), 10, 64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid user_id: %v", err))
		return
	}

	at, err := db.ParseReminderTime(r.PostFormValue("date"), r.PostFormValue("time"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	if _, err := s.db.CreateReminder(r.Context(), usr, r.PostFormValue("description"), at); err != nil {
		status := http.StatusInternalServerError
		if err == db.ErrEmptyDescription {
			status = http.StatusBadRequest
		}
		s.fail(w, status, err)
		return
	}

	fmt.Fprint(w, "Reminder added!")
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	usr, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid user id: %v", err))
		return
	}

	reminders, err := s.db.ListPending(r.Context(), usr)
	if err != nil {
		s.logger.Errorw("failed listing reminders", "user", usr, "err", err)
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	data := struct {
		UserID    int64
		Reminders []db.Reminder
	}{UserID: usr, Reminders: reminders}

	if err := s.list.Execute(w, data); err != nil {
		s.logger.Errorw("failed rendering list", "err", err)
	}
}

// fail reports the failure detail back to the caller, matching the plain
// error pages of the form flow.
func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	fmt.Fprintf(w, "Error: %v", err)
}
