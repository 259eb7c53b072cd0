package guildconfigservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo *FakeRepository) *GuildConfigService {
	return NewGuildConfigService(
		repo,
		observability.NoOpLogger,
		observability.NoopServiceMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func TestGuildConfigService_GetConfig(t *testing.T) {
	ctx := context.Background()

	stored := &guildconfigdomain.GuildConfig{
		GuildID:         "guild-1",
		AutoSyncEnabled: false,
		MinNotifyRating: 1600,
	}

	tests := []struct {
		name      string
		repoSetup func(*FakeRepository)
		guildID   string
		want      *guildconfigdomain.GuildConfig
		wantErr   error
	}{
		{
			name: "stored config returned as-is",
			repoSetup: func(f *FakeRepository) {
				f.GetConfigFunc = func(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error) {
					return stored, nil
				}
			},
			guildID: "guild-1",
			want:    stored,
		},
		{
			name:      "missing config falls back to defaults",
			repoSetup: func(f *FakeRepository) {},
			guildID:   "guild-2",
			want:      guildconfigdomain.Defaults("guild-2"),
		},
		{
			name:      "missing guild id rejected",
			repoSetup: func(f *FakeRepository) {},
			guildID:   "",
			wantErr:   guildconfigdomain.ErrMissingGuildID,
		},
		{
			name: "repo error propagates",
			repoSetup: func(f *FakeRepository) {
				f.GetConfigFunc = func(ctx context.Context, db bun.IDB, guildID string) (*guildconfigdomain.GuildConfig, error) {
					return nil, errors.New("connection refused")
				}
			},
			guildID: "guild-3",
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRepository()
			tt.repoSetup(repo)
			s := newTestService(repo)

			got, err := s.GetConfig(ctx, tt.guildID)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr.Error())
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr.Error(), err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.GuildID != tt.want.GuildID {
				t.Errorf("GuildID = %q, want %q", got.GuildID, tt.want.GuildID)
			}
			if got.AutoSyncEnabled != tt.want.AutoSyncEnabled {
				t.Errorf("AutoSyncEnabled = %v, want %v", got.AutoSyncEnabled, tt.want.AutoSyncEnabled)
			}
			if got.MinNotifyRating != tt.want.MinNotifyRating {
				t.Errorf("MinNotifyRating = %d, want %d", got.MinNotifyRating, tt.want.MinNotifyRating)
			}
		})
	}
}

func TestGuildConfigService_GetConfig_DefaultsShape(t *testing.T) {
	defaults := guildconfigdomain.Defaults("guild-9")

	if !defaults.AutoSyncEnabled {
		t.Error("defaults should enable auto sync")
	}
	if defaults.MinNotifyRating != guildconfigdomain.DefaultMinNotifyRating {
		t.Errorf("MinNotifyRating = %d, want %d", defaults.MinNotifyRating, guildconfigdomain.DefaultMinNotifyRating)
	}
	if defaults.TrustedRole != "" {
		t.Error("defaults should not set a trusted role")
	}
}
