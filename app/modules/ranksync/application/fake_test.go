package ranksyncservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"github.com/open-ladder/ranksync/internal/observability"
	"github.com/open-ladder/ranksync/internal/retry"
	"go.opentelemetry.io/otel/trace/noop"
)

// FakeRatingService provides a programmable stub for the RatingService port.
type FakeRatingService struct {
	mu    sync.Mutex
	trace []string

	Snapshots map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot
	Histories map[ranksyncdomain.Handle][]ranksyncdomain.RatingPoint

	GetCurrentRatingsFunc func(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error)
	GetRatingHistoryFunc  func(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error)
}

func NewFakeRatingService() *FakeRatingService {
	return &FakeRatingService{
		Snapshots: make(map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot),
		Histories: make(map[ranksyncdomain.Handle][]ranksyncdomain.RatingPoint),
	}
}

func (f *FakeRatingService) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRatingService) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRatingService) GetCurrentRatings(ctx context.Context, handles []ranksyncdomain.Handle) (map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, error) {
	f.record("GetCurrentRatings")
	if f.GetCurrentRatingsFunc != nil {
		return f.GetCurrentRatingsFunc(ctx, handles)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[ranksyncdomain.Handle]ranksyncdomain.RatingSnapshot, len(handles))
	for _, h := range handles {
		if snap, ok := f.Snapshots[h]; ok {
			out[h] = snap
		}
	}
	return out, nil
}

func (f *FakeRatingService) GetRatingHistory(ctx context.Context, handle ranksyncdomain.Handle) ([]ranksyncdomain.RatingPoint, error) {
	f.record("GetRatingHistory " + string(handle))
	if f.GetRatingHistoryFunc != nil {
		return f.GetRatingHistoryFunc(ctx, handle)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Histories[handle], nil
}

var _ RatingService = (*FakeRatingService)(nil)

// FakeRoleDirectory holds an in-memory role directory so reconciliation runs
// observe their own mutations.
type FakeRoleDirectory struct {
	mu    sync.Mutex
	trace []string

	DirectoryRoles map[ranksyncdomain.GuildID]ranksyncdomain.RoleSet
	MemberRoleSets map[ranksyncdomain.GuildID]map[ranksyncdomain.MemberID]ranksyncdomain.RoleSet

	GuildRoleNamesFunc func(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.RoleSet, error)
	MemberRolesFunc    func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (ranksyncdomain.RoleSet, error)
	AddRolesFunc       func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error
	RemoveRolesFunc    func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error
}

func NewFakeRoleDirectory() *FakeRoleDirectory {
	return &FakeRoleDirectory{
		DirectoryRoles: make(map[ranksyncdomain.GuildID]ranksyncdomain.RoleSet),
		MemberRoleSets: make(map[ranksyncdomain.GuildID]map[ranksyncdomain.MemberID]ranksyncdomain.RoleSet),
	}
}

// SetGuild seeds the directory roles of one guild.
func (f *FakeRoleDirectory) SetGuild(guildID ranksyncdomain.GuildID, roleNames ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DirectoryRoles[guildID] = ranksyncdomain.NewRoleSet(roleNames...)
}

// SetMember seeds the roles one member currently holds.
func (f *FakeRoleDirectory) SetMember(guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MemberRoleSets[guildID] == nil {
		f.MemberRoleSets[guildID] = make(map[ranksyncdomain.MemberID]ranksyncdomain.RoleSet)
	}
	f.MemberRoleSets[guildID][memberID] = ranksyncdomain.NewRoleSet(roleNames...)
}

// HeldRoles returns a sorted copy of the roles a member holds.
func (f *FakeRoleDirectory) HeldRoles(guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for name := range f.MemberRoleSets[guildID][memberID] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (f *FakeRoleDirectory) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRoleDirectory) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// MutationCalls returns only the AddRoles and RemoveRoles trace entries.
func (f *FakeRoleDirectory) MutationCalls() []string {
	var out []string
	for _, step := range f.Trace() {
		if strings.HasPrefix(step, "AddRoles") || strings.HasPrefix(step, "RemoveRoles") {
			out = append(out, step)
		}
	}
	return out
}

func (f *FakeRoleDirectory) GuildRoleNames(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.RoleSet, error) {
	f.record("GuildRoleNames " + string(guildID))
	if f.GuildRoleNamesFunc != nil {
		return f.GuildRoleNamesFunc(ctx, guildID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(ranksyncdomain.RoleSet)
	for name := range f.DirectoryRoles[guildID] {
		out.Add(name)
	}
	return out, nil
}

func (f *FakeRoleDirectory) MemberRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (ranksyncdomain.RoleSet, error) {
	f.record(fmt.Sprintf("MemberRoles %s/%s", guildID, memberID))
	if f.MemberRolesFunc != nil {
		return f.MemberRolesFunc(ctx, guildID, memberID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(ranksyncdomain.RoleSet)
	for name := range f.MemberRoleSets[guildID][memberID] {
		out.Add(name)
	}
	return out, nil
}

func (f *FakeRoleDirectory) AddRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error {
	f.record(fmt.Sprintf("AddRoles %s/%s %v", guildID, memberID, roleNames))
	if f.AddRolesFunc != nil {
		return f.AddRolesFunc(ctx, guildID, memberID, roleNames, reason)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MemberRoleSets[guildID] == nil {
		f.MemberRoleSets[guildID] = make(map[ranksyncdomain.MemberID]ranksyncdomain.RoleSet)
	}
	if f.MemberRoleSets[guildID][memberID] == nil {
		f.MemberRoleSets[guildID][memberID] = make(ranksyncdomain.RoleSet)
	}
	for _, name := range roleNames {
		f.MemberRoleSets[guildID][memberID].Add(name)
	}
	return nil
}

func (f *FakeRoleDirectory) RemoveRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error {
	f.record(fmt.Sprintf("RemoveRoles %s/%s %v", guildID, memberID, roleNames))
	if f.RemoveRolesFunc != nil {
		return f.RemoveRolesFunc(ctx, guildID, memberID, roleNames, reason)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range roleNames {
		delete(f.MemberRoleSets[guildID][memberID], name)
	}
	return nil
}

var _ RoleDirectory = (*FakeRoleDirectory)(nil)

// FakeAchievementStore keeps ledger records in memory.
type FakeAchievementStore struct {
	mu    sync.Mutex
	trace []string

	Records map[string]ranksyncdomain.AchievementRecord

	GetFunc    func(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error)
	UpsertFunc func(ctx context.Context, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error
}

func NewFakeAchievementStore() *FakeAchievementStore {
	return &FakeAchievementStore{Records: make(map[string]ranksyncdomain.AchievementRecord)}
}

func recordKey(guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) string {
	return string(guildID) + "/" + string(memberID)
}

func (f *FakeAchievementStore) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeAchievementStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// UpsertCalls counts the Upsert entries in the trace.
func (f *FakeAchievementStore) UpsertCalls() int {
	n := 0
	for _, step := range f.Trace() {
		if strings.HasPrefix(step, "Upsert") {
			n++
		}
	}
	return n
}

// Stored returns the record held for a member, or nil.
func (f *FakeAchievementStore) Stored(guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) *ranksyncdomain.AchievementRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record, ok := f.Records[recordKey(guildID, memberID)]; ok {
		return &record
	}
	return nil
}

func (f *FakeAchievementStore) Get(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (*ranksyncdomain.AchievementRecord, error) {
	f.record(fmt.Sprintf("Get %s/%s", guildID, memberID))
	if f.GetFunc != nil {
		return f.GetFunc(ctx, guildID, memberID)
	}
	return f.Stored(guildID, memberID), nil
}

func (f *FakeAchievementStore) Upsert(ctx context.Context, member ranksyncdomain.Member, record ranksyncdomain.AchievementRecord) error {
	f.record(fmt.Sprintf("Upsert %s/%s", member.GuildID, member.MemberID))
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, member, record)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records[recordKey(member.GuildID, member.MemberID)] = record
	return nil
}

var _ AchievementStore = (*FakeAchievementStore)(nil)

// FakeLinkSource serves member links from memory.
type FakeLinkSource struct {
	mu    sync.Mutex
	trace []string

	MembersByGuild map[ranksyncdomain.GuildID][]ranksyncdomain.Member

	GuildMembersFunc      func(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncdomain.Member, error)
	MembersByHandlesFunc  func(ctx context.Context, guildID ranksyncdomain.GuildID, handles []ranksyncdomain.Handle) ([]ranksyncdomain.Member, error)
	GuildsWithHandlesFunc func(ctx context.Context, handles []ranksyncdomain.Handle) ([]ranksyncdomain.GuildID, error)
}

func NewFakeLinkSource() *FakeLinkSource {
	return &FakeLinkSource{MembersByGuild: make(map[ranksyncdomain.GuildID][]ranksyncdomain.Member)}
}

// Link registers one member link.
func (f *FakeLinkSource) Link(guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, handle ranksyncdomain.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MembersByGuild[guildID] = append(f.MembersByGuild[guildID], ranksyncdomain.Member{
		GuildID:  guildID,
		MemberID: memberID,
		Handle:   handle,
	})
}

func (f *FakeLinkSource) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeLinkSource) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLinkSource) GuildMembers(ctx context.Context, guildID ranksyncdomain.GuildID) ([]ranksyncdomain.Member, error) {
	f.record("GuildMembers " + string(guildID))
	if f.GuildMembersFunc != nil {
		return f.GuildMembersFunc(ctx, guildID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ranksyncdomain.Member, len(f.MembersByGuild[guildID]))
	copy(out, f.MembersByGuild[guildID])
	return out, nil
}

func (f *FakeLinkSource) MembersByHandles(ctx context.Context, guildID ranksyncdomain.GuildID, handles []ranksyncdomain.Handle) ([]ranksyncdomain.Member, error) {
	f.record("MembersByHandles " + string(guildID))
	if f.MembersByHandlesFunc != nil {
		return f.MembersByHandlesFunc(ctx, guildID, handles)
	}
	wanted := make(map[ranksyncdomain.Handle]struct{}, len(handles))
	for _, h := range handles {
		wanted[ranksyncdomain.NormalizeHandle(h)] = struct{}{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ranksyncdomain.Member
	for _, m := range f.MembersByGuild[guildID] {
		normalized := ranksyncdomain.NormalizeHandle(m.Handle)
		if _, ok := wanted[normalized]; ok {
			m.Handle = normalized
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *FakeLinkSource) GuildsWithHandles(ctx context.Context, handles []ranksyncdomain.Handle) ([]ranksyncdomain.GuildID, error) {
	f.record("GuildsWithHandles")
	if f.GuildsWithHandlesFunc != nil {
		return f.GuildsWithHandlesFunc(ctx, handles)
	}
	wanted := make(map[ranksyncdomain.Handle]struct{}, len(handles))
	for _, h := range handles {
		wanted[ranksyncdomain.NormalizeHandle(h)] = struct{}{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ranksyncdomain.GuildID
	for guildID, members := range f.MembersByGuild {
		for _, m := range members {
			if _, ok := wanted[ranksyncdomain.NormalizeHandle(m.Handle)]; ok {
				out = append(out, guildID)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

var _ LinkSource = (*FakeLinkSource)(nil)

// FakeSettingsProvider serves guild settings from memory, defaulting to auto
// sync on with the standard notify floor.
type FakeSettingsProvider struct {
	mu sync.Mutex

	Settings map[ranksyncdomain.GuildID]GuildSettings

	GuildSettingsFunc    func(ctx context.Context, guildID ranksyncdomain.GuildID) (GuildSettings, error)
	AutoSyncGuildIDsFunc func(ctx context.Context) ([]ranksyncdomain.GuildID, error)
}

func NewFakeSettingsProvider() *FakeSettingsProvider {
	return &FakeSettingsProvider{Settings: make(map[ranksyncdomain.GuildID]GuildSettings)}
}

func (f *FakeSettingsProvider) GuildSettings(ctx context.Context, guildID ranksyncdomain.GuildID) (GuildSettings, error) {
	if f.GuildSettingsFunc != nil {
		return f.GuildSettingsFunc(ctx, guildID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if settings, ok := f.Settings[guildID]; ok {
		return settings, nil
	}
	return GuildSettings{AutoSyncEnabled: true, MinNotifyRating: 1200}, nil
}

func (f *FakeSettingsProvider) AutoSyncGuildIDs(ctx context.Context) ([]ranksyncdomain.GuildID, error) {
	if f.AutoSyncGuildIDsFunc != nil {
		return f.AutoSyncGuildIDsFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ranksyncdomain.GuildID
	for guildID, settings := range f.Settings {
		if settings.AutoSyncEnabled {
			out = append(out, guildID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

var _ SettingsProvider = (*FakeSettingsProvider)(nil)

// FakeNotificationSink collects delivered notices.
type FakeNotificationSink struct {
	mu sync.Mutex

	Notices []RankUpNotice

	NotifyRankUpFunc func(ctx context.Context, notice RankUpNotice) error
}

func NewFakeNotificationSink() *FakeNotificationSink {
	return &FakeNotificationSink{}
}

// Delivered returns a copy of the collected notices.
func (f *FakeNotificationSink) Delivered() []RankUpNotice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RankUpNotice, len(f.Notices))
	copy(out, f.Notices)
	return out
}

func (f *FakeNotificationSink) NotifyRankUp(ctx context.Context, notice RankUpNotice) error {
	if f.NotifyRankUpFunc != nil {
		return f.NotifyRankUpFunc(ctx, notice)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Notices = append(f.Notices, notice)
	return nil
}

var _ NotificationSink = (*FakeNotificationSink)(nil)

// testHarness bundles a service with its fakes.
type testHarness struct {
	svc      *RankSyncService
	ratings  *FakeRatingService
	roles    *FakeRoleDirectory
	store    *FakeAchievementStore
	links    *FakeLinkSource
	settings *FakeSettingsProvider
	notifier *FakeNotificationSink
}

func newTestHarness() *testHarness {
	h := &testHarness{
		ratings:  NewFakeRatingService(),
		roles:    NewFakeRoleDirectory(),
		store:    NewFakeAchievementStore(),
		links:    NewFakeLinkSource(),
		settings: NewFakeSettingsProvider(),
		notifier: NewFakeNotificationSink(),
	}
	h.svc = NewRankSyncService(
		h.ratings,
		h.roles,
		h.store,
		h.links,
		h.settings,
		h.notifier,
		observability.NoOpLogger,
		observability.NoopServiceMetrics{},
		noop.NewTracerProvider().Tracer("test"),
	)
	h.svc.retry = retry.Policy{MaxAttempts: 3, Initial: time.Millisecond, MaxInterval: time.Millisecond}
	return h
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
