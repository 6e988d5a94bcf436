package controllers

import (
	"bytes"
	"errors"
	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
	"io"
	"net/http"
	"pilot/internal/models"
	"pilot/internal/providers"
	"pilot/internal/services"
	"strconv"
	"time"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type generateRequest struct {
	Mood string  `json:"mood" validate:"required|in:drained,restless,hopeful,scattered"`
	Note *string `json:"note"`
}

type dateRequest struct {
	Date string `json:"date" validate:"date"`
}

type chatRequest struct {
	Date    string `json:"date" validate:"date"`
	Message string `json:"message" validate:"required|maxLen:2000"`
}

type onboardingRequest struct {
	UserName *string `json:"user_name"`
	Theme    string  `json:"theme" validate:"maxLen:32"`
}

type tierRequest struct {
	Tier string `json:"tier" validate:"required|in:free,premium,pro,elite"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required|maxLen:32"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type ApiController struct {
	logger  providers.Logger
	service services.SessionServiceInterface
	now     func() time.Time
}

func NewApiController(logger providers.Logger, service services.SessionServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
}

// --- queries ---

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.service.Snapshot())
}

func (ac *ApiController) GetEntries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ac.writeError(w, models.NewUserError(models.ErrInvalidInput, "limit must be a non-negative integer", nil))
			return
		}
		limit = n
	}
	entries, err := ac.service.RecentEntries(r.Context(), limit)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, entries)
}

func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ac.service.Stats(r.Context())
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, stats)
}

func (ac *ApiController) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := ac.service.ExportEntries(r.Context(), &buf); err != nil {
		ac.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pilot-entries.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (ac *ApiController) GetVoice(w http.ResponseWriter, r *http.Request) {
	allowance, err := ac.service.VoiceAllowance(r.Context())
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, allowance)
}

func (ac *ApiController) GetChatThread(w http.ResponseWriter, r *http.Request) {
	date := ac.dateOrToday(r.URL.Query().Get("date"))
	thread, err := ac.service.ChatThread(r.Context(), date)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	if thread == nil {
		ac.writeJSON(w, http.StatusOK, models.ChatThread{TaskDate: date, Messages: []models.ChatMessage{}})
		return
	}
	ac.writeJSON(w, http.StatusOK, thread)
}

func (ac *ApiController) GetInsight(w http.ResponseWriter, r *http.Request) {
	insight, err := ac.service.WeeklyInsight(r.Context())
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, map[string]string{"insight": insight})
}

// --- commands ---

func (ac *ApiController) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !ac.decode(w, r, &req) {
		return
	}
	entry, err := ac.service.GenerateDailyTask(r.Context(), models.Mood(req.Mood), req.Note)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, entry)
}

func (ac *ApiController) Complete(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !ac.decode(w, r, &req) {
		return
	}
	result, err := ac.service.CompleteTask(r.Context(), ac.dateOrToday(req.Date))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, result)
}

func (ac *ApiController) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !ac.decode(w, r, &req) {
		return
	}
	entry, err := ac.service.RegenerateTask(r.Context(), ac.dateOrToday(req.Date))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, entry)
}

func (ac *ApiController) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !ac.decode(w, r, &req) {
		return
	}
	thread, err := ac.service.SendChatMessage(r.Context(), ac.dateOrToday(req.Date), req.Message)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, thread)
}

func (ac *ApiController) Onboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if !ac.decode(w, r, &req) {
		return
	}
	profile, err := ac.service.CompleteOnboarding(r.Context(), req.UserName, req.Theme)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, profile)
}

func (ac *ApiController) SetTier(w http.ResponseWriter, r *http.Request) {
	var req tierRequest
	if !ac.decode(w, r, &req) {
		return
	}
	profile, err := ac.service.SetSubscriptionTier(r.Context(), models.SubscriptionTier(req.Tier))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, profile)
}

func (ac *ApiController) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !ac.decode(w, r, &req) {
		return
	}
	profile, err := ac.service.UpdateTheme(r.Context(), req.Theme)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, profile)
}

func (ac *ApiController) VoiceCheckIn(w http.ResponseWriter, r *http.Request) {
	allowance, err := ac.service.UseVoiceCheckIn(r.Context())
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, allowance)
}

func (ac *ApiController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.ResetAccount(r.Context()); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

// decode reads a JSON body into dst and validates it. An empty body is treated as {}.
func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		ac.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
		return false
	}
	v := validate.Struct(dst)
	if !v.Validate() {
		ac.writeJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return false
	}
	return true
}

func (ac *ApiController) dateOrToday(date string) string {
	if date == "" {
		return models.DateKey(ac.now())
	}
	return date
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBusy), errors.Is(err, models.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, models.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
	}
	ac.writeJSON(w, status, errorResponse{Error: models.UserMessage(err)})
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
