package guildconfigservice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	"github.com/uptrace/bun"
)

func TestGuildConfigService_UpsertConfig(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)

	validConfig := &guildconfigdomain.GuildConfig{
		GuildID:          "guild-1",
		AutoSyncEnabled:  true,
		NotifyChannelID:  "chan-42",
		MinNotifyRating:  1400,
		ProvisionalRoles: []string{"Newcomer"},
		TrustedRole:      "Trusted",
		TrustedMinRating: 1600,
		TrustedCutoff:    &cutoff,
	}

	tests := []struct {
		name      string
		repoSetup func(*FakeRepository)
		config    *guildconfigdomain.GuildConfig
		wantErr   error
		wantSaved bool
	}{
		{
			name:      "valid config stored",
			repoSetup: func(f *FakeRepository) {},
			config:    validConfig,
			wantSaved: true,
		},
		{
			name:      "nil config rejected",
			repoSetup: func(f *FakeRepository) {},
			config:    nil,
			wantErr:   ErrNilConfig,
		},
		{
			name:      "missing guild id rejected",
			repoSetup: func(f *FakeRepository) {},
			config:    &guildconfigdomain.GuildConfig{},
			wantErr:   guildconfigdomain.ErrMissingGuildID,
		},
		{
			name:      "negative notify rating rejected",
			repoSetup: func(f *FakeRepository) {},
			config:    &guildconfigdomain.GuildConfig{GuildID: "guild-2", MinNotifyRating: -1},
			wantErr:   guildconfigdomain.ErrNegativeNotifyRating,
		},
		{
			name:      "trusted role without min rating rejected",
			repoSetup: func(f *FakeRepository) {},
			config:    &guildconfigdomain.GuildConfig{GuildID: "guild-3", TrustedRole: "Trusted"},
			wantErr:   guildconfigdomain.ErrTrustedRoleIncomplete,
		},
		{
			name: "repo error propagates",
			repoSetup: func(f *FakeRepository) {
				f.UpsertConfigFunc = func(ctx context.Context, db bun.IDB, config *guildconfigdomain.GuildConfig) error {
					return errors.New("deadlock detected")
				}
			},
			config:  validConfig,
			wantErr: errors.New("deadlock detected"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRepository()
			tt.repoSetup(repo)
			s := newTestService(repo)

			got, err := s.UpsertConfig(ctx, tt.config)

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

			if got == nil || got.GuildID != tt.config.GuildID {
				t.Errorf("returned config = %+v, want guild %q", got, tt.config.GuildID)
			}

			if tt.wantSaved {
				trace := repo.Trace()
				if len(trace) != 1 || trace[0] != "UpsertConfig" {
					t.Errorf("repo trace = %v, want single UpsertConfig call", trace)
				}
			}
		})
	}
}

func TestGuildConfigService_UpsertConfig_ValidationSkipsRepo(t *testing.T) {
	repo := NewFakeRepository()
	s := newTestService(repo)

	_, err := s.UpsertConfig(context.Background(), &guildconfigdomain.GuildConfig{GuildID: "", MinNotifyRating: 100})
	if err == nil {
		t.Fatal("expected validation error")
	}

	if len(repo.Trace()) != 0 {
		t.Errorf("repo should not be touched on validation failure, trace = %v", repo.Trace())
	}
}
