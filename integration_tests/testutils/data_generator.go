package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	guildconfigdomain "github.com/open-ladder/ranksync/app/modules/guildconfig/domain"
	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
)

// TestDataGenerator produces randomized but well-formed domain fixtures.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator seeds a generator. Pass a fixed seed for reproducible
// fixtures; omit it for a time-based one.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	var s uint64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return &TestDataGenerator{faker: gofakeit.New(s)}
}

// GuildID returns a snowflake-shaped guild identifier.
func (g *TestDataGenerator) GuildID() string {
	return g.faker.Numerify("##################")
}

// MemberID returns a snowflake-shaped member identifier.
func (g *TestDataGenerator) MemberID() string {
	return g.faker.Numerify("##################")
}

// Handle returns a rating-service handle with mixed casing, so tests
// exercise normalization.
func (g *TestDataGenerator) Handle() string {
	return fmt.Sprintf("%s_%s", g.faker.Gamertag(), g.faker.Numerify("###"))
}

// GuildConfig returns a config with auto sync enabled and a notify channel.
func (g *TestDataGenerator) GuildConfig(guildID string) *guildconfigdomain.GuildConfig {
	return &guildconfigdomain.GuildConfig{
		GuildID:         guildID,
		AutoSyncEnabled: true,
		NotifyChannelID: g.faker.Numerify("##################"),
		MinNotifyRating: guildconfigdomain.DefaultMinNotifyRating,
	}
}

// ImportRows returns n distinct member/handle import rows.
func (g *TestDataGenerator) ImportRows(n int) []handlelinkdomain.ImportRow {
	rows := make([]handlelinkdomain.ImportRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, handlelinkdomain.ImportRow{
			MemberID: g.MemberID(),
			Handle:   g.Handle(),
		})
	}
	return rows
}

// Member returns a linked member fixture.
func (g *TestDataGenerator) Member(guildID string) ranksyncdomain.Member {
	return ranksyncdomain.Member{
		GuildID:  ranksyncdomain.GuildID(guildID),
		MemberID: ranksyncdomain.MemberID(g.MemberID()),
		Handle:   ranksyncdomain.NormalizeHandle(ranksyncdomain.Handle(g.Handle())),
	}
}

// Snapshot returns a rated snapshot whose best rating is at or above the
// current one.
func (g *TestDataGenerator) Snapshot(handle ranksyncdomain.Handle, current int) ranksyncdomain.RatingSnapshot {
	best := current + g.faker.Number(0, 200)
	return ranksyncdomain.RatingSnapshot{
		Handle:         ranksyncdomain.NormalizeHandle(handle),
		CurrentRating:  &current,
		BestRatingEver: &best,
	}
}
