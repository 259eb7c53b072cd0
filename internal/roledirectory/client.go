// Package roledirectory is the REST client for the chat platform's role
// service. Role mutations carry an audit reason and are rate limited per
// guild; rejected mutations surface as permission errors, throttling and
// outages as transient ones.
package roledirectory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	ranksyncdomain "github.com/open-ladder/ranksync/app/modules/ranksync/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMutationsPerSec = 5
	defaultBurst           = 5
	auditReasonHeader      = "X-Audit-Reason"
)

// Config configures the role directory client.
type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds each HTTP request. Zero means the default.
	Timeout time.Duration
	// MutationsPerSecond caps role mutations per guild. Zero means the
	// default.
	MutationsPerSecond float64
	// Burst is the mutation burst allowance per guild. Zero means the
	// default.
	Burst int
}

// Client is the REST client for the role directory.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	perSecond  rate.Limit
	burst      int
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[ranksyncdomain.GuildID]*rate.Limiter
}

// New creates a new role directory client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	perSecond := cfg.MutationsPerSecond
	if perSecond <= 0 {
		perSecond = defaultMutationsPerSec
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		perSecond:  rate.Limit(perSecond),
		burst:      burst,
		logger:     logger,
		limiters:   make(map[ranksyncdomain.GuildID]*rate.Limiter),
	}
}

func (c *Client) limiter(guildID ranksyncdomain.GuildID) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[guildID]
	if !ok {
		l = rate.NewLimiter(c.perSecond, c.burst)
		c.limiters[guildID] = l
	}
	return l
}

type roleCatalogResponse struct {
	Roles []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"roles"`
}

type memberRolesResponse struct {
	Roles []string `json:"roles"`
}

type roleMutationRequest struct {
	Roles []string `json:"roles"`
}

// GuildRoleNames returns the names of every role defined in the guild.
func (c *Client) GuildRoleNames(ctx context.Context, guildID ranksyncdomain.GuildID) (ranksyncdomain.RoleSet, error) {
	endpoint := fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, url.PathEscape(string(guildID)))

	var body roleCatalogResponse
	if err := c.get(ctx, "guild role listing", endpoint, &body); err != nil {
		return nil, err
	}

	set := make(ranksyncdomain.RoleSet, len(body.Roles))
	for _, r := range body.Roles {
		set.Add(r.Name)
	}
	return set, nil
}

// MemberRoles returns the names of the roles the member currently holds.
func (c *Client) MemberRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID) (ranksyncdomain.RoleSet, error) {
	endpoint := fmt.Sprintf("%s/guilds/%s/members/%s/roles",
		c.baseURL, url.PathEscape(string(guildID)), url.PathEscape(string(memberID)))

	var body memberRolesResponse
	if err := c.get(ctx, "member role listing", endpoint, &body); err != nil {
		return nil, err
	}
	return ranksyncdomain.NewRoleSet(body.Roles...), nil
}

// AddRoles grants roleNames to the member, recording reason in the
// directory's audit log.
func (c *Client) AddRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error {
	return c.mutate(ctx, http.MethodPost, guildID, memberID, roleNames, reason)
}

// RemoveRoles revokes roleNames from the member, recording reason in the
// directory's audit log.
func (c *Client) RemoveRoles(ctx context.Context, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error {
	return c.mutate(ctx, http.MethodDelete, guildID, memberID, roleNames, reason)
}

func (c *Client) get(ctx context.Context, op, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ranksyncdomain.TransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := classifyReadStatus(op, resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method string, guildID ranksyncdomain.GuildID, memberID ranksyncdomain.MemberID, roleNames []string, reason string) error {
	if len(roleNames) == 0 {
		return nil
	}
	if err := c.limiter(guildID).Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(roleMutationRequest{Roles: roleNames})
	if err != nil {
		return fmt.Errorf("encode role mutation: %w", err)
	}

	endpoint := fmt.Sprintf("%s/guilds/%s/members/%s/roles",
		c.baseURL, url.PathEscape(string(guildID)), url.PathEscape(string(memberID)))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build role mutation request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	if reason != "" {
		req.Header.Set(auditReasonHeader, reason)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ranksyncdomain.TransientError{Op: "role mutation", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
		c.logger.DebugContext(ctx, "Role mutation applied",
			slog.String("guild_id", string(guildID)),
			slog.String("member_id", string(memberID)),
			slog.Int("roles", len(roleNames)))
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &ranksyncdomain.PermissionError{
			GuildID:  guildID,
			MemberID: memberID,
			Err:      fmt.Errorf("status %d", resp.StatusCode),
		}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &ranksyncdomain.TransientError{Op: "role mutation", Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("role mutation: unexpected status %d", resp.StatusCode)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func classifyReadStatus(op string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return &ranksyncdomain.TransientError{Op: op, Err: fmt.Errorf("status %d", status)}
	default:
		return fmt.Errorf("%s: unexpected status %d", op, status)
	}
}
