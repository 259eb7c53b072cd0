package ranksyncqueue

// Sweep triggers, recorded in job metadata and echoed on the completion
// event.
const (
	TriggerPeriodic = "periodic"
	TriggerRequest  = "request"
	TriggerOperator = "operator"
	TriggerSchedule = "schedule"
)

// SweepJob runs a full reconciliation of one guild.
type SweepJob struct {
	GuildID string `json:"guild_id"`
}

// Kind returns the job type identifier for River.
func (SweepJob) Kind() string { return "ranksync_sweep" }

// SweepScanJob fans a sweep out to every guild with automatic sync enabled.
// River's periodic scheduler inserts it on the configured interval.
type SweepScanJob struct{}

// Kind returns the job type identifier for River.
func (SweepScanJob) Kind() string { return "ranksync_sweep_scan" }

// SeedJob backfills one guild's achievement ledger from rating history.
type SeedJob struct {
	GuildID string `json:"guild_id"`
}

// Kind returns the job type identifier for River.
func (SeedJob) Kind() string { return "ranksync_seed" }

// JobInfo describes one queued job for the operator surface.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	GuildID     string `json:"guild_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
