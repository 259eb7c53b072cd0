package opsserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	handlelinkparsers "github.com/open-ladder/ranksync/app/modules/handlelink/infrastructure/parsers"
	ranksyncservice "github.com/open-ladder/ranksync/app/modules/ranksync/application"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	ranksyncqueue "github.com/open-ladder/ranksync/app/modules/ranksync/infrastructure/queue"
	"github.com/open-ladder/ranksync/internal/attr"
)

// maxImportBytes bounds an uploaded link workbook.
const maxImportBytes = 8 << 20

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}
	if err := s.queue.HealthCheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "queue unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type sweepRequest struct {
	GuildID string `json:"guild_id"`
	// Schedule is an optional natural-language time ("in 2 hours",
	// "tomorrow 6am"); empty runs the sweep immediately.
	Schedule string `json:"schedule,omitempty"`
}

type sweepResponse struct {
	GuildID     string `json:"guild_id"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
}

func (s *Server) handleSweepRequest(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GuildID == "" {
		writeError(w, http.StatusBadRequest, "guild_id is required")
		return
	}

	if req.Schedule == "" {
		if err := s.queue.EnqueueSweep(r.Context(), ranksyncdomain.GuildID(req.GuildID), ranksyncqueue.TriggerOperator); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to enqueue sweep", attr.GuildID(req.GuildID), attr.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to enqueue sweep")
			return
		}
		writeJSON(w, http.StatusAccepted, sweepResponse{GuildID: req.GuildID})
		return
	}

	runAt, err := parseSchedule(req.Schedule, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.queue.ScheduleSweep(r.Context(), ranksyncdomain.GuildID(req.GuildID), runAt); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to schedule sweep", attr.GuildID(req.GuildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to schedule sweep")
		return
	}
	writeJSON(w, http.StatusAccepted, sweepResponse{
		GuildID:     req.GuildID,
		ScheduledAt: runAt.Format(time.RFC3339),
	})
}

func (s *Server) handleListSweeps(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	jobs, err := s.queue.ScheduledSweeps(r.Context(), ranksyncdomain.GuildID(guildID))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list sweeps", attr.GuildID(guildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sweeps")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleSeedRequest(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	if err := s.queue.EnqueueSeed(r.Context(), ranksyncdomain.GuildID(guildID)); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to enqueue seed", attr.GuildID(guildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to enqueue seed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"guild_id": guildID})
}

func (s *Server) handleLinkImport(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	data, err := readWorkbook(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := handlelinkparsers.ParseLinksWorkbook(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.links.BulkImport(r.Context(), guildID, rows)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Link import failed", attr.GuildID(guildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// readWorkbook accepts the workbook either as a multipart "file" field or as
// the raw request body.
func readWorkbook(r *http.Request) ([]byte, error) {
	reader := io.Reader(r.Body)
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxImportBytes+1))
	if err != nil {
		return nil, errors.New("could not read upload")
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	if len(data) > maxImportBytes {
		return nil, errors.New("upload exceeds the size limit")
	}
	return data, nil
}

type guildConfigBody struct {
	AutoSyncEnabled  bool       `json:"auto_sync_enabled"`
	NotifyChannelID  string     `json:"notify_channel_id"`
	MinNotifyRating  int        `json:"min_notify_rating"`
	ProvisionalRoles []string   `json:"provisional_roles"`
	TrustedRole      string     `json:"trusted_role"`
	TrustedMinRating int        `json:"trusted_min_rating"`
	TrustedCutoff    *time.Time `json:"trusted_cutoff"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	config, err := s.configs.GetConfig(r.Context(), guildID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to read guild config", attr.GuildID(guildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read config")
		return
	}
	writeJSON(w, http.StatusOK, configBodyFromDomain(config))
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var body guildConfigBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := s.configs.UpsertConfig(r.Context(), &guildconfigdomain.GuildConfig{
		GuildID:          guildID,
		AutoSyncEnabled:  body.AutoSyncEnabled,
		NotifyChannelID:  body.NotifyChannelID,
		MinNotifyRating:  body.MinNotifyRating,
		ProvisionalRoles: body.ProvisionalRoles,
		TrustedRole:      body.TrustedRole,
		TrustedMinRating: body.TrustedMinRating,
		TrustedCutoff:    body.TrustedCutoff,
	})
	if err != nil {
		if isConfigRejection(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to store guild config", attr.GuildID(guildID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store config")
		return
	}
	writeJSON(w, http.StatusOK, configBodyFromDomain(stored))
}

func (s *Server) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	memberID := chi.URLParam(r, "memberID")

	record, err := s.sync.GetAchievement(r.Context(), ranksyncdomain.GuildID(guildID), ranksyncdomain.MemberID(memberID))
	if err != nil {
		if errors.Is(err, ranksyncservice.ErrAchievementNotFound) {
			writeError(w, http.StatusNotFound, "no achievement record")
			return
		}
		if errors.Is(err, ranksyncservice.ErrMissingGuildID) || errors.Is(err, ranksyncservice.ErrMissingMemberID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to read achievement",
			attr.GuildID(guildID), attr.MemberID(memberID), attr.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read achievement")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"guild_id":          guildID,
		"member_id":         memberID,
		"max_rating_seen":   record.MaxRatingSeen,
		"highest_rank_seen": record.HighestRankSeen,
	})
}

func configBodyFromDomain(c *guildconfigdomain.GuildConfig) guildConfigBody {
	return guildConfigBody{
		AutoSyncEnabled:  c.AutoSyncEnabled,
		NotifyChannelID:  c.NotifyChannelID,
		MinNotifyRating:  c.MinNotifyRating,
		ProvisionalRoles: c.ProvisionalRoles,
		TrustedRole:      c.TrustedRole,
		TrustedMinRating: c.TrustedMinRating,
		TrustedCutoff:    c.TrustedCutoff,
	}
}

func isConfigRejection(err error) bool {
	return errors.Is(err, guildconfigdomain.ErrMissingGuildID) ||
		errors.Is(err, guildconfigdomain.ErrNegativeNotifyRating) ||
		errors.Is(err, guildconfigdomain.ErrTrustedRoleIncomplete)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
